// Package metrics exposes Prometheus collectors for the AJAX layer.
// A nil *Recorder is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Recorder struct {
	gateRejections      *prometheus.CounterVec
	envelopes           *prometheus.CounterVec
	missingTranslations *prometheus.CounterVec
	mailDeliveries      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		gateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ajax",
			Name:      "gate_rejections_total",
			Help:      "Non-XHR requests rejected by the AJAX-only gate.",
		}, []string{"controller", "action"}),
		envelopes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ajax",
			Name:      "envelopes_total",
			Help:      "JSON envelopes built, by kind.",
		}, []string{"kind"}),
		missingTranslations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ajax",
			Name:      "missing_translations_total",
			Help:      "Envelope texts dropped because no catalog entry existed.",
		}, []string{"domain"}),
		mailDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ajax",
			Name:      "mail_deliveries_total",
			Help:      "Outgoing emails, by delivery status.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{r.gateRejections, r.envelopes, r.missingTranslations, r.mailDeliveries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) GateRejected(controller, action string) {
	if r == nil {
		return
	}
	r.gateRejections.WithLabelValues(controller, action).Inc()
}

// Envelope kinds.
const (
	KindSuccess   = "success"
	KindFailure   = "failure"
	KindException = "exception"
	KindRedirect  = "redirect"
)

func (r *Recorder) EnvelopeBuilt(kind string) {
	if r == nil {
		return
	}
	r.envelopes.WithLabelValues(kind).Inc()
}

func (r *Recorder) TranslationMissing(domain string) {
	if r == nil {
		return
	}
	r.missingTranslations.WithLabelValues(domain).Inc()
}

func (r *Recorder) MailDelivered(err error) {
	if r == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	r.mailDeliveries.WithLabelValues(status).Inc()
}
