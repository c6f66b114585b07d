package main

import (
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/SaiNageswarS/go-ajax-boot/ajax"
	"github.com/SaiNageswarS/go-ajax-boot/auth"
	"github.com/SaiNageswarS/go-ajax-boot/server"
)

const (
	contactTemplate = "contact"
	historySize     = 50
	adminUserType   = "admin"
)

// Translation keys answered by the contact actions.
const (
	msgInvalidEmail = "contact_invalid_email"
	msgEmptyMessage = "contact_empty_message"
	msgSent         = "contact_sent"
	msgForbidden    = "contact_forbidden"
)

type submission struct {
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Message  string    `json:"message"`
	Received time.Time `json:"received"`
}

// ContactController accepts feedback over AJAX and mails it to the site owner.
type ContactController struct {
	*ajax.Controller
	urls      ajax.URLResolver
	recipient string

	mu          sync.Mutex
	submissions []submission
}

func NewContactController(deps ajax.Deps, cfg *AppConfig) *ContactController {
	return &ContactController{
		Controller: ajax.NewController(deps),
		urls:       deps.Router,
		recipient:  cfg.ContactRecipient,
	}
}

func (c *ContactController) Routes() []server.Route {
	return []server.Route{
		{Name: "contact", Action: "index", Pattern: "/contact", Method: http.MethodGet, Handler: c.index},
		{Name: "contact_feedback", Action: "feedback", Pattern: "/contact/feedback", Method: http.MethodPost, Policy: ajax.AjaxOnly, Handler: c.feedback},
		// kept for old forms that post to /contact/send
		{Name: "contact_send", Action: "send", Pattern: "/contact/send", Method: http.MethodPost, Handler: c.send},
		{Name: "contact_history", Action: "history", Pattern: "/contact/history", Method: http.MethodGet, Policy: ajax.AjaxOnly,
			Handler: auth.RequireToken(c)(http.HandlerFunc(c.history)).ServeHTTP},
	}
}

// NoAuth lets the controller act as the auth guard's responder.
func (c *ContactController) NoAuth() ajax.Envelope {
	return c.Respond(nil).NoAuth()
}

func (c *ContactController) index(w http.ResponseWriter, r *http.Request) {
	res := c.Respond(r)
	feedbackURL, err := c.urls.URL("contact_feedback")
	if err != nil {
		c.Reply(w, res.Exception(err))
		return
	}
	c.Reply(w, res.Build(true, "", "", map[string]any{"feedback": feedbackURL}))
}

func (c *ContactController) feedback(w http.ResponseWriter, r *http.Request) {
	res := c.Respond(r)

	if err := r.ParseForm(); err != nil {
		c.Reply(w, res.Exception(err))
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	name := strings.TrimSpace(r.PostFormValue("name"))
	message := strings.TrimSpace(r.PostFormValue("message"))

	if _, err := mail.ParseAddress(email); err != nil {
		c.Reply(w, res.Build(false, "", msgInvalidEmail, map[string]any{"field": "email"}))
		return
	}
	if message == "" {
		c.Reply(w, res.Build(false, "", msgEmptyMessage, map[string]any{"field": "message"}))
		return
	}

	result, err := c.SendEmail(r.Context(), c.recipient, contactTemplate, map[string]any{
		"email":   email,
		"name":    name,
		"message": message,
	})
	if err != nil {
		c.Reply(w, res.Exception(err))
		return
	}

	c.record(submission{Email: email, Name: name, Message: message, Received: time.Now().UTC()})
	c.Reply(w, res.Build(true, msgSent, "", map[string]any{"messageId": result.MessageID}))
}

func (c *ContactController) send(w http.ResponseWriter, r *http.Request) {
	if err := server.Forward(w, r, "contact_feedback"); err != nil {
		c.Reply(w, c.Respond(r).Exception(err))
	}
}

func (c *ContactController) history(w http.ResponseWriter, r *http.Request) {
	res := c.Respond(r)
	if auth.GetUserType(r.Context()) != adminUserType {
		c.Reply(w, res.Build(false, "", msgForbidden, nil))
		return
	}
	c.Reply(w, res.Build(true, "", "", map[string]any{"submissions": c.recent()}))
}

func (c *ContactController) record(s submission) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submissions = append(c.submissions, s)
	if len(c.submissions) > historySize {
		c.submissions = c.submissions[len(c.submissions)-historySize:]
	}
}

// recent returns the stored submissions, newest first.
func (c *ContactController) recent() []submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]submission, len(c.submissions))
	for i, s := range c.submissions {
		out[len(out)-1-i] = s
	}
	return out
}
