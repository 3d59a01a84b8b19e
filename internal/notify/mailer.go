// Package notify delivers receipt emails. Delivery is best-effort.
package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"flowershop/internal/config"
	"flowershop/internal/domain"

	"github.com/sony/gobreaker/v2"
	"gopkg.in/mail.v2"
)

// Sender delivers composed messages. *mail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

// PathResolver maps a receipt pointer to a local file.
type PathResolver interface {
	LocalPath(pointer string) (string, bool)
}

// Mailer sends receipt emails through SMTP behind a circuit breaker.
type Mailer struct {
	sender  Sender
	from    string
	enabled bool
	files   PathResolver
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *log.Logger
}

// New builds a Mailer from SMTP settings. When enabled is false every send is a logged no-op.
func New(cfg config.SMTPConfig, enabled bool, files PathResolver, logger *log.Logger) *Mailer {
	var sender Sender
	if enabled {
		d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
		d.SSL = cfg.Secure
		d.Timeout = 15 * time.Second
		sender = d
	}
	return NewWithSender(sender, cfg.From, enabled, files, logger)
}

// NewWithSender builds a Mailer around an existing transport.
func NewWithSender(sender Sender, from string, enabled bool, files PathResolver, logger *log.Logger) *Mailer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Mailer{
		sender:  sender,
		from:    from,
		enabled: enabled && sender != nil,
		files:   files,
		logger:  logger,
	}
	m.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("mailer: breaker %s %s -> %s", name, from, to)
		},
	})
	return m
}

// Enabled reports whether emails are actually sent.
func (m *Mailer) Enabled() bool {
	return m.enabled
}

// SendReceiptEmail emails the receipt for order to the given address, attaching the artifact when it is on disk.
func (m *Mailer) SendReceiptEmail(ctx context.Context, to string, order domain.Order, pointer string) error {
	if !m.enabled {
		m.logger.Printf("mailer: email not configured, skip order_id=%s", order.ID)
		return nil
	}
	if to == "" {
		return fmt.Errorf("send receipt order_id=%s: empty recipient", order.ID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Your receipt for order %s", order.ID))
	msg.SetBody("text/plain", fmt.Sprintf("Thank you for your order!\n\nYour order %s has been approved. Your receipt is attached.\n", order.ID))
	if order.ReceiptHTML != "" {
		msg.AddAlternative("text/html", order.ReceiptHTML)
	}
	if m.files != nil && pointer != "" {
		if local, ok := m.files.LocalPath(pointer); ok {
			if _, err := os.Stat(local); err == nil {
				msg.Attach(local)
			} else {
				m.logger.Printf("mailer: attachment missing order_id=%s path=%s", order.ID, local)
			}
		}
	}

	_, err := m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.sender.DialAndSend(msg)
	})
	if err != nil {
		m.logger.Printf("mailer: send order_id=%s to=%s error=%v", order.ID, to, err)
		return fmt.Errorf("send receipt order_id=%s: %w", order.ID, err)
	}
	m.logger.Printf("mailer: sent order_id=%s to=%s", order.ID, to)
	return nil
}
