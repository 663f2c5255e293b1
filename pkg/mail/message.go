package mail

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// Message is a plain text email with optional file attachments
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []string
}

// build turns m into a go-mail message. Attachments that do not exist are
// skipped and reported in missing.
func build(from string, m Message, now time.Time) (msg *gomail.Msg, missing []string, err error) {
	msg = gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, nil, fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetDateWithValue(now)
	msg.SetMessageIDWithValue(uuid.NewString() + "@" + domainOf(from))
	msg.SetBodyString(gomail.TypeTextPlain, m.Body)

	for _, path := range m.Attachments {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			missing = append(missing, path)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read attachment %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, nil, fmt.Errorf("attachment %s is a directory", path)
		}
		msg.AttachFile(path, gomail.WithFileContentType(gomail.ContentType(contentType(path))))
	}
	return msg, missing, nil
}

// contentType guesses from the extension, falling back to octet-stream
func contentType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func domainOf(addr string) string {
	if at := strings.LastIndexByte(addr, '@'); at != -1 {
		return strings.Trim(addr[at+1:], "> ")
	}
	return "localhost"
}
