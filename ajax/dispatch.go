package ajax

import (
	"context"
	"net/http"
	"strings"
)

// HandlerSuffix terminates every handler name; the logical action name is the
// handler name without it.
const HandlerSuffix = "Action"

const handlerSeparator = "::"

// HandlerID formats the identifier of the handler serving action on controller,
// "<controller>::<action>Action".
func HandlerID(controller, action string) string {
	return controller + handlerSeparator + action + HandlerSuffix
}

// SplitHandlerID recovers the controller identifier and the bare action name.
func SplitHandlerID(id string) (controller, action string) {
	handler := id
	if i := strings.LastIndex(id, handlerSeparator); i >= 0 {
		controller, handler = id[:i], id[i+len(handlerSeparator):]
	}
	return controller, strings.TrimSuffix(handler, HandlerSuffix)
}

type handlerKey struct{}
type subRequestKey struct{}

// WithHandler records the handler identifier being dispatched.
func WithHandler(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, handlerKey{}, id)
}

func HandlerFrom(ctx context.Context) string {
	id, _ := ctx.Value(handlerKey{}).(string)
	return id
}

// WithSubRequest marks ctx as belonging to an internal forward rather than the
// top-level request.
func WithSubRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, subRequestKey{}, true)
}

func IsSubRequest(ctx context.Context) bool {
	sub, _ := ctx.Value(subRequestKey{}).(bool)
	return sub
}

// ResolveActionName returns the action name of the handler dispatched for r.
func ResolveActionName(r *http.Request) string {
	_, action := SplitHandlerID(HandlerFrom(r.Context()))
	return action
}
