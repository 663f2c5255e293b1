package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/xrsl/reachout/pkg/config"
	"github.com/xrsl/reachout/pkg/drafting"
)

var testCfg = config.SMTPConfig{Host: "smtp.example.com", Port: "587", User: "ada@example.com", Password: "pw"}

type captured struct {
	msg *gomail.Msg
}

func newTestSender(cfg config.SMTPConfig, out *captured, err error) *Sender {
	s := NewSender(cfg)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	s.transport = func(_ context.Context, _ config.SMTPConfig, msg *gomail.Msg) error {
		out.msg = msg
		return err
	}
	return s
}

func render(t *testing.T, m *gomail.Msg) *mail.Message {
	t.Helper()
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	msg, err := mail.ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	return msg
}

func parts(t *testing.T, m *gomail.Msg) (*mail.Message, []*multipart.Part, [][]byte) {
	t.Helper()
	msg := render(t, m)
	mt, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil || mt != "multipart/mixed" {
		t.Fatalf("Content-Type = %q (%v)", mt, err)
	}
	mr := multipart.NewReader(msg.Body, params["boundary"])
	var ps []*multipart.Part
	var bodies [][]byte
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		b, _ := io.ReadAll(p)
		ps = append(ps, p)
		bodies = append(bodies, b)
	}
	return msg, ps, bodies
}

func TestSendBuildsMessage(t *testing.T) {
	dir := t.TempDir()
	cv := filepath.Join(dir, "cv.pdf")
	if err := os.WriteFile(cv, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out captured
	s := newTestSender(testCfg, &out, nil)
	err := s.Send(context.Background(), Message{
		To:          "hr@acme.io",
		Subject:     "Application for Engineer – Ada",
		Body:        "Hello Acme,\n\nMy resume is attached.",
		Attachments: []string{cv},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	msg, ps, bodies := parts(t, out.msg)
	if to, err := mail.ParseAddress(msg.Header.Get("To")); err != nil || to.Address != "hr@acme.io" {
		t.Errorf("To = %q", msg.Header.Get("To"))
	}
	dec := new(mime.WordDecoder)
	subject, _ := dec.DecodeHeader(msg.Header.Get("Subject"))
	if subject != "Application for Engineer – Ada" {
		t.Errorf("Subject = %q", subject)
	}
	if from, err := mail.ParseAddress(msg.Header.Get("From")); err != nil || from.Address != "ada@example.com" {
		t.Errorf("From = %q", msg.Header.Get("From"))
	}
	if !strings.HasSuffix(msg.Header.Get("Message-Id"), "@example.com>") {
		t.Errorf("Message-ID = %q", msg.Header.Get("Message-Id"))
	}

	if len(ps) != 2 {
		t.Fatalf("parts = %d, want 2", len(ps))
	}
	// multipart.Reader decodes quoted-printable but keeps CRLF line breaks
	if got := strings.ReplaceAll(string(bodies[0]), "\r\n", "\n"); got != "Hello Acme,\n\nMy resume is attached." {
		t.Errorf("body = %q", bodies[0])
	}
	if ps[1].FileName() != "cv.pdf" {
		t.Errorf("attachment name = %q", ps[1].FileName())
	}
	if ct := ps[1].Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/pdf") {
		t.Errorf("attachment type = %q", ct)
	}
}

func TestMissingAttachmentIsSkipped(t *testing.T) {
	var out captured
	s := newTestSender(testCfg, &out, nil)
	err := s.Send(context.Background(), Message{To: "hr@acme.io", Subject: "s", Body: "b", Attachments: []string{"/does/not/exist.pdf"}})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n := len(out.msg.GetAttachments()); n != 0 {
		t.Errorf("attachments = %d, want none", n)
	}
	body := render(t, out.msg)
	if mt, _, _ := mime.ParseMediaType(body.Header.Get("Content-Type")); mt != "text/plain" {
		t.Errorf("Content-Type = %q, want a plain body", mt)
	}
}

func TestMissingConfig(t *testing.T) {
	var out captured
	cfg := testCfg
	cfg.Password = ""
	cfg.Host = ""
	err := newTestSender(cfg, &out, nil).Send(context.Background(), Message{To: "hr@acme.io", Body: "b"})
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("err = %v, want ErrMissingConfig", err)
	}
	if !strings.Contains(err.Error(), "EMAIL_HOST") || !strings.Contains(err.Error(), "EMAIL_PASSWORD") {
		t.Errorf("error should name the missing settings: %v", err)
	}
	if out.msg != nil {
		t.Error("nothing should be sent")
	}
}

func TestInvalidRecipient(t *testing.T) {
	var out captured
	if err := newTestSender(testCfg, &out, nil).Send(context.Background(), Message{To: "Hiring Manager", Body: "b"}); err == nil {
		t.Error("expected error for a recipient without an address")
	}
}

func TestDispatcher(t *testing.T) {
	var out captured
	d := Dispatcher{Sender: newTestSender(testCfg, &out, nil)}

	got, err := d.Dispatch(context.Background(), drafting.Draft{Type: drafting.Email, Recipient: "hr@acme.io", Subject: "s", Body: "b"}, "")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got != SuccessMessage {
		t.Errorf("outcome = %q", got)
	}

	if _, err := d.Dispatch(context.Background(), drafting.Draft{Type: drafting.CoverLetter, Body: "b"}, ""); err == nil {
		t.Error("cover letters cannot be emailed")
	}
}

func TestDispatcherTransportError(t *testing.T) {
	var out captured
	d := Dispatcher{Sender: newTestSender(testCfg, &out, errors.New("535 bad credentials"))}
	_, err := d.Dispatch(context.Background(), drafting.Draft{Type: drafting.Email, Recipient: "hr@acme.io", Body: "b"}, "")
	if err == nil || !strings.Contains(err.Error(), "535 bad credentials") {
		t.Errorf("err = %v", err)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"cv.pdf":      "application/pdf",
		"notes.TXT":   "text/plain",
		"resume.xyz1": "application/octet-stream",
	}
	for path, want := range tests {
		if got := contentType(path); !strings.HasPrefix(got, want) {
			t.Errorf("contentType(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestTransportRejectsBadPort(t *testing.T) {
	cfg := testCfg
	cfg.Port = "smtp"
	msg, _, err := build(cfg.User, Message{To: "hr@acme.io", Subject: "s", Body: "b"}, time.Now())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := smtpTransport(context.Background(), cfg, msg); err == nil || !strings.Contains(err.Error(), "EMAIL_PORT") {
		t.Errorf("err = %v", err)
	}
}
