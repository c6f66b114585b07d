package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"

	"github.com/SaiNageswarS/go-ajax-boot/util"
	"github.com/google/uuid"
)

var sendMail = smtp.SendMail

// SMTPTransport submits messages to an SMTP relay, retrying transient failures.
type SMTPTransport struct {
	Host     string
	Port     int
	Username string
	Password string

	Attempts  int
	BaseDelay time.Duration
}

func (t *SMTPTransport) addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

func (t *SMTPTransport) auth() smtp.Auth {
	if t.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", t.Username, t.Password, t.Host)
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) (DeliveryResult, error) {
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), t.Host)
	raw := buildMessage(msg, messageID, time.Now())

	attempts, delay := t.Attempts, t.BaseDelay
	if attempts <= 0 {
		attempts = 3
	}
	if delay <= 0 {
		delay = time.Second
	}

	err := util.RetryWithExponentialBackoff(ctx, attempts, delay, func() error {
		return sendMail(t.addr(), t.auth(), msg.From.Email, []string{msg.To}, raw)
	})
	if err != nil {
		return DeliveryResult{}, err
	}
	return DeliveryResult{MessageID: messageID}, nil
}

func buildMessage(msg Message, messageID string, now time.Time) []byte {
	from := mail.Address{Name: msg.From.Name, Address: msg.From.Email}
	to := mail.Address{Address: msg.To}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: %s\r\n", messageID)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.Body)
	return buf.Bytes()
}
