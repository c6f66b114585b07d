package ajax

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SaiNageswarS/go-ajax-boot/metrics"
	"github.com/SaiNageswarS/go-ajax-boot/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Register("ContactController", "index", Open)
	reg.Register("ContactController", "feedback", AjaxOnly)
	return reg
}

func xhr(r *http.Request) *http.Request {
	r.Header.Set("X-Requested-With", "XMLHttpRequest")
	return r
}

func TestHandlerID_RoundTrip(t *testing.T) {
	id := HandlerID("ContactController", "feedback")
	assert.Equal(t, "ContactController::feedbackAction", id)

	controller, action := SplitHandlerID(id)
	assert.Equal(t, "ContactController", controller)
	assert.Equal(t, "feedback", action)
}

func TestSplitHandlerID_EdgeCases(t *testing.T) {
	tests := []struct {
		id, controller, action string
	}{
		{"", "", ""},
		{"indexAction", "", "index"},
		{"App::Admin::listAction", "App::Admin", "list"},
		{"Ctrl::show", "Ctrl", "show"},
	}
	for _, tt := range tests {
		controller, action := SplitHandlerID(tt.id)
		assert.Equal(t, tt.controller, controller, tt.id)
		assert.Equal(t, tt.action, action, tt.id)
	}
}

func TestResolveActionName(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", ResolveActionName(r))

	r = r.WithContext(WithHandler(r.Context(), HandlerID("ContactController", "feedback")))
	assert.Equal(t, "feedback", ResolveActionName(r))
}

func TestRegistry_LookupUsesHandlerSuffix(t *testing.T) {
	reg := testRegistry()

	p, ok := reg.Lookup("ContactController", "feedback")
	assert.True(t, ok)
	assert.Equal(t, AjaxOnly, p)

	_, ok = reg.Lookup("ContactController", "missing")
	assert.False(t, ok)
	_, ok = reg.Lookup("OtherController", "feedback")
	assert.False(t, ok)

	reg.Register("ContactController", "feedback", Open)
	p, _ = reg.Lookup("ContactController", "feedback")
	assert.Equal(t, Open, p)
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "ajax-only", AjaxOnly.String())
	assert.Equal(t, "unknown", Policy(7).String())
}

func TestGate_IsRestrictedAction(t *testing.T) {
	g := NewGate(testRegistry(), nil, nil)

	assert.True(t, g.IsRestrictedAction("ContactController", "feedback"))
	assert.False(t, g.IsRestrictedAction("ContactController", "index"))
	assert.False(t, g.IsRestrictedAction("ContactController", "unknown"))
}

func TestGate_RejectsNonAjaxCallers(t *testing.T) {
	log, logs := testutil.ObservedLogger()
	promReg := prometheus.NewRegistry()
	rec, err := metrics.New(promReg)
	require.NoError(t, err)
	g := NewGate(testRegistry(), log, rec)

	wrongHeader := httptest.NewRequest(http.MethodPost, "/contact/feedback", nil)
	wrongHeader.Header.Set("X-Requested-With", "fetch")

	for name, r := range map[string]*http.Request{
		"plain":        httptest.NewRequest(http.MethodPost, "/contact/feedback", nil),
		"wrong header": wrongHeader,
		"no request":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			err := g.Check("ContactController", "feedback", r)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))

			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, "feedback", nf.Action)
			assert.Equal(t, "Only ajax request available for this action.", nf.Error())
		})
	}

	assert.Equal(t, 3, logs.FilterMessage("rejected non-ajax request").Len())
	assert.Equal(t, 3.0, counterTotal(t, promReg, "ajax_gate_rejections_total"))
}

func TestGate_PassesAjaxAndOpenActions(t *testing.T) {
	g := NewGate(testRegistry(), nil, nil)

	post := func() *http.Request { return httptest.NewRequest(http.MethodPost, "/", nil) }
	assert.NoError(t, g.Check("ContactController", "feedback", xhr(post())))
	assert.NoError(t, g.Check("ContactController", "index", post()))
	assert.NoError(t, g.Check("ContactController", "index", nil))
	assert.NoError(t, g.Check("ContactController", "unknown", post()))
}

func TestGate_Guard(t *testing.T) {
	g := NewGate(testRegistry(), nil, nil)

	r := httptest.NewRequest(http.MethodPost, "/contact/feedback", nil)
	r = r.WithContext(WithHandler(r.Context(), HandlerID("ContactController", "feedback")))

	assert.ErrorIs(t, g.Guard(r), ErrNotFound)
	assert.NoError(t, g.Guard(xhr(r)))
}

func TestGate_GuardNilRequest(t *testing.T) {
	g := NewGate(testRegistry(), nil, nil)

	var err error
	assert.NotPanics(t, func() { err = g.Guard(nil) })
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Only ajax request available for this action.", nf.Error())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, EventHook, s)

	s, err = ParseStrategy("event")
	require.NoError(t, err)
	assert.Equal(t, EventHook, s)

	s, err = ParseStrategy("lifecycle")
	require.NoError(t, err)
	assert.Equal(t, Lifecycle, s)

	_, err = ParseStrategy("listener")
	assert.Error(t, err)
}

func TestStrategy_Applies(t *testing.T) {
	top := context.Background()
	sub := WithSubRequest(top)

	assert.True(t, EventHook.Applies(top))
	assert.False(t, EventHook.Applies(sub))
	assert.True(t, Lifecycle.Applies(top))
	assert.True(t, Lifecycle.Applies(sub))
}

func counterTotal(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
