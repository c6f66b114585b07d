package ajax

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// Envelope keys.
const (
	KeySuccess     = "success"
	KeySuccessText = "successText"
	KeyErrorText   = "errorText"
	KeyRedirect    = "redirect"
)

// InternalError is the error key reported for failures that carry no key of
// their own.
const InternalError = "internal_error"

// Envelope is the JSON body of every AJAX reply.
type Envelope map[string]any

func prototype() Envelope {
	return Envelope{
		KeySuccess:     false,
		KeySuccessText: "",
		KeyErrorText:   "",
	}
}

// Success reports the success flag; redirect envelopes report false.
func (e Envelope) Success() bool {
	ok, _ := e[KeySuccess].(bool)
	return ok
}

// IsRedirect reports whether e has the {redirect: url} shape.
func (e Envelope) IsRedirect() bool {
	_, ok := e[KeyRedirect]
	return ok
}

// Map keys are sorted on encode, so equal envelopes serialize identically.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON writes env with status 200.
func WriteJSON(w http.ResponseWriter, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(body)
	return err
}
