package notify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowershop/internal/domain"

	"github.com/sony/gobreaker/v2"
	"gopkg.in/mail.v2"
)

type stubSender struct {
	sent []*mail.Message
	err  error
}

func (s *stubSender) DialAndSend(m ...*mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

type dirResolver struct {
	dir string
}

func (r dirResolver) LocalPath(pointer string) (string, bool) {
	return filepath.Join(r.dir, filepath.Base(pointer)), true
}

func TestSendReceiptEmail_DisabledIsNoop(t *testing.T) {
	sender := &stubSender{}
	m := NewWithSender(sender, "shop@example.com", false, nil, nil)
	if err := m.SendReceiptEmail(context.Background(), "ana@example.com", domain.Order{ID: "o1"}, ""); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no messages, got %d", len(sender.sent))
	}
	if m.Enabled() {
		t.Fatalf("expected mailer disabled")
	}
}

func TestSendReceiptEmail_AttachesArtifact(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "receipt.html"), []byte("<html>ORDER RECEIPT</html>"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	sender := &stubSender{}
	m := NewWithSender(sender, "shop@example.com", true, dirResolver{dir: dir}, nil)

	err := m.SendReceiptEmail(context.Background(), "ana@example.com", domain.Order{ID: "o1"}, "/uploads/receipts/o1/receipt.html")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if got := msg.GetHeader("Subject"); len(got) != 1 || !strings.Contains(got[0], "o1") {
		t.Fatalf("unexpected subject %v", got)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	if !strings.Contains(buf.String(), `filename="receipt.html"`) {
		t.Fatalf("expected attachment in message")
	}
}

func TestSendReceiptEmail_TransportFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("dial tcp: connection refused")}
	m := NewWithSender(sender, "shop@example.com", true, nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := m.SendReceiptEmail(ctx, "ana@example.com", domain.Order{ID: "o1"}, ""); err == nil {
			t.Fatalf("expected error on attempt %d", i)
		}
	}
	err := m.SendReceiptEmail(ctx, "ana@example.com", domain.Order{ID: "o1"}, "")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}

func TestSendReceiptEmail_EmptyRecipient(t *testing.T) {
	m := NewWithSender(&stubSender{}, "shop@example.com", true, nil, nil)
	if err := m.SendReceiptEmail(context.Background(), "", domain.Order{ID: "o1"}, ""); err == nil {
		t.Fatalf("expected error for empty recipient")
	}
}
