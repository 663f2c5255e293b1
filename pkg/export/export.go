// Package export writes finalized drafts to disk for channels that are not
// sent automatically.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/log"
)

// Record is the exported file's YAML shape
type Record struct {
	Type       drafting.ContentType `yaml:"type"`
	Recipient  string               `yaml:"recipient,omitempty"`
	Subject    string               `yaml:"subject,omitempty"`
	Body       string               `yaml:"body"`
	Attachment string               `yaml:"attachment,omitempty"`
	ExportedAt time.Time            `yaml:"exported_at"`
}

// Dispatcher implements workflow.Dispatcher by writing one YAML file per draft
type Dispatcher struct {
	Dir string
	Now func() time.Time
}

func New(dir string) *Dispatcher {
	return &Dispatcher{Dir: dir, Now: time.Now}
}

func (d *Dispatcher) Dispatch(_ context.Context, draft drafting.Draft, attachmentPath string) (string, error) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	ts := now()

	data, err := Marshal(Record{
		Type:       draft.Type,
		Recipient:  draft.Recipient,
		Subject:    draft.Subject,
		Body:       draft.Body,
		Attachment: attachmentPath,
		ExportedAt: ts.UTC(),
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path, err := d.create(fmt.Sprintf("%s-%s", draft.Type, ts.Format("20060102-150405")), data)
	if err != nil {
		return "", err
	}
	log.Info("draft exported", "path", path)
	return "Exported to " + path, nil
}

// create writes data under base.yaml, adding a counter when the name is taken
func (d *Dispatcher) create(base string, data []byte) (string, error) {
	for i := 0; i < 100; i++ {
		name := base + ".yaml"
		if i > 0 {
			name = fmt.Sprintf("%s-%d.yaml", base, i)
		}
		path := filepath.Join(d.Dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		return path, f.Close()
	}
	return "", fmt.Errorf("too many exports named %s", base)
}

// Marshal encodes v as YAML with 2-space indentation
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
