package ajax

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, Envelope{KeySuccess: false, KeySuccessText: "", KeyErrorText: "Oops", "id": 3})
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"errorText":"Oops","id":3,"success":false,"successText":""}`, rec.Body.String())
}

func TestWriteJSON_Redirect(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, Envelope{KeyRedirect: "/login"}))
	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"redirect":"/login"}`, rec.Body.String())
}

func TestWriteJSON_UnsupportedValue(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, Envelope{"ch": make(chan int)})
	assert.Error(t, err)
	assert.Zero(t, rec.Body.Len())
}

func TestPrototype(t *testing.T) {
	assert.Equal(t, Envelope{KeySuccess: false, KeySuccessText: "", KeyErrorText: ""}, prototype())
}
