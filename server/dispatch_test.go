package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SaiNageswarS/go-ajax-boot/ajax"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestForward_OutsideControllerRoute(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := Forward(httptest.NewRecorder(), req, "home")
	assert.ErrorContains(t, err, "not dispatched by a controller route")
}

func TestForward_UnknownRoute(t *testing.T) {
	router := mux.NewRouter()
	d := &dispatcher{router: router, gate: ajax.NewGate(ajax.NewRegistry(), zap.NewNop(), nil), log: zap.NewNop()}

	var forwardErr error
	router.HandleFunc("/", d.wrap("Ctrl", Route{Action: "index", Handler: func(w http.ResponseWriter, r *http.Request) {
		forwardErr = Forward(w, r, "missing")
	}}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, forwardErr, ErrRouteNotFound)
}

func TestDispatcher_MarksSubRequests(t *testing.T) {
	router := mux.NewRouter()
	d := &dispatcher{router: router, gate: ajax.NewGate(ajax.NewRegistry(), zap.NewNop(), nil), log: zap.NewNop()}

	var handlers []string
	var subs []bool
	record := func(w http.ResponseWriter, r *http.Request) {
		handlers = append(handlers, ajax.HandlerFrom(r.Context()))
		subs = append(subs, ajax.IsSubRequest(r.Context()))
	}

	router.HandleFunc("/target", d.wrap("Ctrl", Route{Action: "target", Handler: record})).Name("target")
	router.HandleFunc("/entry", d.wrap("Ctrl", Route{Action: "entry", Handler: func(w http.ResponseWriter, r *http.Request) {
		record(w, r)
		require.NoError(t, Forward(w, r, "target"))
	}}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/entry", nil))

	assert.Equal(t, []string{"Ctrl::entryAction", "Ctrl::targetAction"}, handlers)
	assert.Equal(t, []bool{false, true}, subs)
}

func TestURLResolver_RouteWithVariables(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/users/{id}", func(http.ResponseWriter, *http.Request) {}).Name("user")

	_, err := NewURLResolver(router).URL("user")
	assert.Error(t, err, "routes with variables cannot be resolved without values")
}

type namedController struct{ otherController }

func (namedController) ControllerName() string { return "App\\Contact" }

func TestControllerName(t *testing.T) {
	assert.Equal(t, "otherController", controllerName(&otherController{}))
	assert.Equal(t, "App\\Contact", controllerName(&namedController{}))
}
