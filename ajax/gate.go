package ajax

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"github.com/SaiNageswarS/go-ajax-boot/metrics"
	"go.uber.org/zap"
)

// ErrNotFound is matched by every gate rejection.
var ErrNotFound = errors.New("not found")

// NotFoundError is returned when an AjaxOnly action is reached without XHR.
type NotFoundError struct {
	Controller string
	Action     string
}

func (e *NotFoundError) Error() string {
	return "Only ajax request available for this action."
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsXMLHttpRequest reports whether the caller identified itself as XHR.
func IsXMLHttpRequest(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// Strategy selects which dispatches the gate inspects.
type Strategy int

const (
	// EventHook guards top-level requests only.
	EventHook Strategy = iota
	// Lifecycle guards every dispatch, forwarded sub-requests included.
	Lifecycle
)

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "event":
		return EventHook, nil
	case "lifecycle":
		return Lifecycle, nil
	default:
		return EventHook, fmt.Errorf("unknown gate strategy %q", s)
	}
}

// Applies reports whether the gate runs for a dispatch carrying ctx.
func (s Strategy) Applies(ctx context.Context) bool {
	return s == Lifecycle || !IsSubRequest(ctx)
}

type Gate struct {
	registry *Registry
	log      *zap.Logger
	metrics  *metrics.Recorder
}

// NewGate builds a gate over registry. log defaults to the global logger and
// rec may be nil.
func NewGate(registry *Registry, log *zap.Logger, rec *metrics.Recorder) *Gate {
	if log == nil {
		log = logger.Get()
	}
	return &Gate{registry: registry, log: log, metrics: rec}
}

// IsRestrictedAction is true iff controller has a handler for action and that
// handler is registered AjaxOnly.
func (g *Gate) IsRestrictedAction(controller, action string) bool {
	p, ok := g.registry.Lookup(controller, action)
	return ok && p == AjaxOnly
}

// Check rejects r when action is restricted and r is nil or not an XHR call.
func (g *Gate) Check(controller, action string, r *http.Request) error {
	if !g.IsRestrictedAction(controller, action) {
		return nil
	}
	if r != nil && IsXMLHttpRequest(r) {
		return nil
	}

	g.log.Info("rejected non-ajax request", zap.String("controller", controller), zap.String("action", action))
	g.metrics.GateRejected(controller, action)
	return &NotFoundError{Controller: controller, Action: action}
}

// Guard checks the handler recorded on r's context. A nil request is
// rejected.
func (g *Gate) Guard(r *http.Request) error {
	if r == nil {
		g.log.Info("rejected nil request")
		return &NotFoundError{}
	}
	controller, action := SplitHandlerID(HandlerFrom(r.Context()))
	return g.Check(controller, action, r)
}
