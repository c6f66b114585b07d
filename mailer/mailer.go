// Package mailer renders templated emails and hands them to a Transport.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"github.com/SaiNageswarS/go-ajax-boot/metrics"
	"go.uber.org/zap"
)

// SubjectVar is the template variable that carries the rendered subject into
// the body template.
const SubjectVar = "subject"

// Placeholder sender used until SetFrom is called.
const (
	DefaultFromAddress = "noreply@localhost"
	DefaultFromName    = "Mailer"
)

var ErrNoRecipient = errors.New("mailer: empty recipient")

type Address struct {
	Email string
	Name  string
}

type Message struct {
	From    Address
	To      string
	Subject string
	Body    string
}

type DeliveryResult struct {
	MessageID string
}

// Transport delivers a fully rendered message.
type Transport interface {
	Send(ctx context.Context, msg Message) (DeliveryResult, error)
}

type Mailer struct {
	renderer  Renderer
	transport Transport
	log       *zap.Logger
	metrics   *metrics.Recorder

	mu   sync.RWMutex
	from Address
}

type Option func(*Mailer)

func WithLogger(log *zap.Logger) Option { return func(m *Mailer) { m.log = log } }

func WithMetrics(rec *metrics.Recorder) Option { return func(m *Mailer) { m.metrics = rec } }

func New(renderer Renderer, transport Transport, opts ...Option) *Mailer {
	m := &Mailer{
		renderer:  renderer,
		transport: transport,
		log:       logger.Get(),
		from:      Address{Email: DefaultFromAddress, Name: DefaultFromName},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetFrom changes the default sender.
func (m *Mailer) SetFrom(address, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.from = Address{Email: address, Name: name}
}

func (m *Mailer) From() Address {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.from
}

// SendEmail sends templateName to the given address from the default sender.
func (m *Mailer) SendEmail(ctx context.Context, to, templateName string, vars map[string]any) (DeliveryResult, error) {
	return m.SendEmailFrom(ctx, m.From(), to, templateName, vars)
}

// SendEmailFrom renders "<templateName>/subject", exposes the result to the
// body as SubjectVar, renders "<templateName>/body" and sends. vars is not
// modified.
func (m *Mailer) SendEmailFrom(ctx context.Context, from Address, to, templateName string, vars map[string]any) (DeliveryResult, error) {
	if strings.TrimSpace(to) == "" {
		return DeliveryResult{}, ErrNoRecipient
	}

	data := maps.Clone(vars)
	if data == nil {
		data = map[string]any{}
	}

	subject, err := m.renderer.Render(templateName+"/subject", data)
	if err != nil {
		return DeliveryResult{}, err
	}
	subject = strings.TrimSpace(subject)
	data[SubjectVar] = subject

	body, err := m.renderer.Render(templateName+"/body", data)
	if err != nil {
		return DeliveryResult{}, err
	}

	res, err := m.transport.Send(ctx, Message{From: from, To: to, Subject: subject, Body: body})
	m.metrics.MailDelivered(err)
	if err != nil {
		m.log.Error("Failed to send email", zap.String("template", templateName), zap.String("to", to), zap.Error(err))
		return DeliveryResult{}, fmt.Errorf("send %s: %w", templateName, err)
	}

	m.log.Info("Email sent", zap.String("template", templateName), zap.String("messageId", res.MessageID))
	return res, nil
}
