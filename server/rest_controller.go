package server

import (
	"net/http"
	"reflect"

	"github.com/SaiNageswarS/go-ajax-boot/ajax"
)

// RestController is an interface for HTTP controllers.
// Controllers implementing this interface can be registered with the Builder
// and will have their dependencies automatically injected.
type RestController interface {
	// Routes returns the HTTP routes handled by this controller.
	Routes() []Route
}

// NamedController overrides the controller identifier used in handler IDs.
// Without it the Go type name is used, e.g. "ContactController".
type NamedController interface {
	ControllerName() string
}

// Route defines a single HTTP route of a controller.
type Route struct {
	// Name registers the route for URL resolution and Forward. Unnamed
	// routes are not resolvable.
	Name string

	// Action is the logical action name. The handler is identified as
	// "<Controller>::<Action>Action".
	Action string

	// Pattern is the gorilla/mux path template (e.g., "/contact", "/users/{id}").
	Pattern string

	// Method restricts the route to one HTTP method; empty allows all.
	Method string

	// Policy decides which callers may reach the action.
	Policy ajax.Policy

	// Handler is the HTTP handler function for the route.
	Handler http.HandlerFunc
}

func controllerName(ctrl RestController) string {
	if n, ok := ctrl.(NamedController); ok {
		return n.ControllerName()
	}
	t := reflect.TypeOf(ctrl)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
