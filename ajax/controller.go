package ajax

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/SaiNageswarS/go-ajax-boot/i18n"
	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"github.com/SaiNageswarS/go-ajax-boot/mailer"
	"github.com/SaiNageswarS/go-ajax-boot/metrics"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var ErrNoMailer = errors.New("ajax: controller has no mailer")

// Deps are the collaborators of a Controller, supplied by the container.
type Deps struct {
	Translations      i18n.Provider
	Router            URLResolver
	Logger            *zap.Logger
	Metrics           *metrics.Recorder
	Mailer            *mailer.Mailer
	DefaultLocale     language.Tag
	TranslationDomain string
	AuthorizationURL  string
}

// Controller is embedded by application controllers. It hands out per-request
// Responders and keeps the settings that may change after construction.
type Controller struct {
	deps Deps
	log  *zap.Logger

	mu      sync.RWMutex
	domain  string
	authURL string
	from    mailer.Address
}

func NewController(deps Deps) *Controller {
	c := &Controller{
		deps:    deps,
		log:     deps.Logger,
		domain:  deps.TranslationDomain,
		authURL: deps.AuthorizationURL,
		from:    mailer.Address{Email: mailer.DefaultFromAddress, Name: mailer.DefaultFromName},
	}
	if c.log == nil {
		c.log = logger.Get()
	}
	if c.domain == "" {
		c.domain = i18n.DefaultDomain
	}
	if c.authURL == "" {
		c.authURL = DefaultAuthorizationURL
	}
	if deps.Mailer != nil {
		c.from = deps.Mailer.From()
	}
	return c
}

// SetTranslationDomain changes the domain used by later Responders and
// returns the previous one.
func (c *Controller) SetTranslationDomain(domain string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.domain
	c.domain = domain
	return prev
}

func (c *Controller) TranslationDomain() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.domain
}

func (c *Controller) SetAuthorizationURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authURL = url
}

func (c *Controller) AuthorizationURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authURL
}

// SetMailerParams sets the sender used by SendEmail.
func (c *Controller) SetMailerParams(address, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.from = mailer.Address{Email: address, Name: name}
}

func (c *Controller) MailerParams() mailer.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.from
}

// Respond returns a Responder bound to the locale negotiated for r, or the
// default locale when none was negotiated.
func (c *Controller) Respond(r *http.Request) *Responder {
	locale := c.deps.DefaultLocale
	if r != nil {
		if tag, ok := i18n.LocaleFrom(r.Context()); ok {
			locale = tag
		}
	}

	return NewResponder(c.deps.Translations.For(locale),
		WithDomain(c.TranslationDomain()),
		WithAuthorizationURL(c.AuthorizationURL()),
		WithRouter(c.deps.Router),
		WithLogger(c.log),
		WithMetrics(c.deps.Metrics),
	)
}

// Reply writes env, logging write failures.
func (c *Controller) Reply(w http.ResponseWriter, env Envelope) {
	if err := WriteJSON(w, env); err != nil {
		c.log.Error("failed to write ajax response", zap.Error(err))
	}
}

// SendEmail renders templateName and sends it to to from the controller's
// mailer params.
func (c *Controller) SendEmail(ctx context.Context, to, templateName string, vars map[string]any) (mailer.DeliveryResult, error) {
	if c.deps.Mailer == nil {
		return mailer.DeliveryResult{}, ErrNoMailer
	}
	return c.deps.Mailer.SendEmailFrom(ctx, c.MailerParams(), to, templateName, vars)
}
