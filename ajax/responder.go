package ajax

import (
	"maps"

	"github.com/SaiNageswarS/go-ajax-boot/i18n"
	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"github.com/SaiNageswarS/go-ajax-boot/metrics"
	"go.uber.org/zap"
)

// URLResolver turns a route name into a URL.
type URLResolver interface {
	URL(routeName string) (string, error)
}

// DefaultAuthorizationURL is where NoAuth sends clients unless overridden.
const DefaultAuthorizationURL = "/"

// Responder builds envelopes for a single request. It is immutable once built.
type Responder struct {
	translator i18n.Translator
	domain     string
	router     URLResolver
	authURL    string
	log        *zap.Logger
	metrics    *metrics.Recorder
}

type ResponderOption func(*Responder)

func WithDomain(domain string) ResponderOption {
	return func(r *Responder) {
		if domain != "" {
			r.domain = domain
		}
	}
}

func WithRouter(router URLResolver) ResponderOption {
	return func(r *Responder) { r.router = router }
}

func WithAuthorizationURL(url string) ResponderOption {
	return func(r *Responder) {
		if url != "" {
			r.authURL = url
		}
	}
}

func WithLogger(log *zap.Logger) ResponderOption {
	return func(r *Responder) {
		if log != nil {
			r.log = log
		}
	}
}

func WithMetrics(rec *metrics.Recorder) ResponderOption {
	return func(r *Responder) { r.metrics = rec }
}

func NewResponder(translator i18n.Translator, opts ...ResponderOption) *Responder {
	r := &Responder{
		translator: translator,
		domain:     i18n.DefaultDomain,
		authURL:    DefaultAuthorizationURL,
		log:        logger.Get(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Responder) Domain() string { return r.domain }

// Build returns the standard envelope. Both texts are translation keys; a key
// without a catalog entry becomes "". A failure without errorText reports
// InternalError. extra is applied last and overrides any fixed key, including
// success, successText and errorText.
func (r *Responder) Build(success bool, successText, errorText string, extra map[string]any) Envelope {
	kind := metrics.KindFailure
	if success {
		kind = metrics.KindSuccess
	}
	return r.build(kind, success, successText, errorText, extra)
}

func (r *Responder) build(kind string, success bool, successText, errorText string, extra map[string]any) Envelope {
	env := prototype()

	if successText != "" {
		successText = r.translate(successText)
	}
	if !success && errorText == "" {
		errorText = InternalError
	}
	if errorText != "" {
		errorText = r.translate(errorText)
	}

	env[KeySuccess] = success
	env[KeySuccessText] = successText
	env[KeyErrorText] = errorText
	maps.Copy(env, extra)

	r.metrics.EnvelopeBuilt(kind)
	return env
}

// translate returns "" when the translator hands key back unchanged.
func (r *Responder) translate(key string) string {
	msg := r.translator.Translate(key, map[string]string{}, r.domain)
	if msg == key {
		r.log.Warn("missing translation", zap.String("key", key), zap.String("domain", r.domain))
		r.metrics.TranslationMissing(r.domain)
		return ""
	}
	return msg
}

// Exception logs err and reports only InternalError to the client.
func (r *Responder) Exception(err error) Envelope {
	r.log.Error("ajax action failed", zap.Error(err))
	return r.build(metrics.KindException, false, "", InternalError, nil)
}

// Error reports err's message as the error key, without logging. Use it for
// domain errors whose message is a translation key.
func (r *Responder) Error(err error, extra map[string]any) Envelope {
	var key string
	if err != nil {
		key = err.Error()
	}
	return r.build(metrics.KindFailure, false, "", key, extra)
}

// Redirect returns {redirect: url}, resolving routeName when url is empty.
// An unresolvable route is logged and yields an empty URL.
func (r *Responder) Redirect(routeName, url string) Envelope {
	if url == "" && routeName != "" {
		url = r.resolve(routeName)
	}
	r.metrics.EnvelopeBuilt(metrics.KindRedirect)
	return Envelope{KeyRedirect: url}
}

func (r *Responder) resolve(routeName string) string {
	if r.router == nil {
		r.log.Error("no router to resolve redirect", zap.String("route", routeName))
		return ""
	}
	url, err := r.router.URL(routeName)
	if err != nil {
		r.log.Error("failed to resolve redirect", zap.String("route", routeName), zap.Error(err))
		return ""
	}
	return url
}

// NoAuth redirects to the authorization URL.
func (r *Responder) NoAuth() Envelope {
	return r.Redirect("", r.authURL)
}
