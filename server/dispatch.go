package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SaiNageswarS/go-ajax-boot/ajax"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// DispatchHook is called right before a controller action runs, after the
// AJAX gate. Returning an error aborts the request: errors matching
// ajax.ErrNotFound answer 404, anything else 500.
type DispatchHook func(r *http.Request) error

// ErrRouteNotFound is returned by Forward for unknown route names.
var ErrRouteNotFound = errors.New("route not found")

type routerKey struct{}

// dispatcher is the single extension point wrapped around every controller
// action.
type dispatcher struct {
	router   *mux.Router
	gate     *ajax.Gate
	strategy ajax.Strategy
	hooks    []DispatchHook
	log      *zap.Logger
}

func (d *dispatcher) wrap(controller string, route Route) http.HandlerFunc {
	id := ajax.HandlerID(controller, route.Action)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := ajax.WithHandler(context.WithValue(r.Context(), routerKey{}, d.router), id)
		r = r.WithContext(ctx)

		if d.strategy.Applies(ctx) {
			if err := d.gate.Guard(r); err != nil {
				d.abort(w, r, err)
				return
			}
		}
		for _, hook := range d.hooks {
			if err := hook(r); err != nil {
				d.abort(w, r, err)
				return
			}
		}

		route.Handler(w, r)
	}
}

func (d *dispatcher) abort(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ajax.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	d.log.Error("Dispatch aborted", zap.String("handler", ajax.HandlerFrom(r.Context())), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Forward dispatches r to the controller action registered as routeName, as a
// sub-request. The target runs through the same dispatch wrapper, so the gate
// inspects it only under ajax.Lifecycle.
func Forward(w http.ResponseWriter, r *http.Request, routeName string) error {
	router, ok := r.Context().Value(routerKey{}).(*mux.Router)
	if !ok {
		return fmt.Errorf("forward to %s: request not dispatched by a controller route", routeName)
	}
	route := router.Get(routeName)
	if route == nil {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, routeName)
	}

	route.GetHandler().ServeHTTP(w, r.Clone(ajax.WithSubRequest(r.Context())))
	return nil
}

// urlResolver resolves named routes registered on a mux router.
type urlResolver struct {
	router *mux.Router
}

// NewURLResolver returns an ajax.URLResolver over router's named routes.
func NewURLResolver(router *mux.Router) ajax.URLResolver {
	return &urlResolver{router: router}
}

func (u *urlResolver) URL(routeName string) (string, error) {
	route := u.router.Get(routeName)
	if route == nil {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, routeName)
	}
	url, err := route.URL()
	if err != nil {
		return "", err
	}
	return url.String(), nil
}
