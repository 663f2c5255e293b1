package workflow

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/xrsl/reachout/pkg/drafting"
)

// Store persists session state. Get returns (nil, nil) for an unknown id.
type Store interface {
	Get(ctx context.Context, sessionID string) (*State, error)
	Put(ctx context.Context, s *State) error
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]*State, error)
}

// DraftRecord is one entry of a session's draft history
type DraftRecord struct {
	SessionID     string
	Revision      int
	Draft         drafting.Draft
	Feedback      string
	ModelUsed     string
	PromptVersion string
	CreatedAt     time.Time
}

// History keeps every draft a session produced
type History interface {
	RecordDraft(ctx context.Context, rec DraftRecord) error
}

// MemoryStore keeps sessions in memory as JSON, so callers never share
// pointers with the stored copy.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*State, error) {
	m.mu.RLock()
	data, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Put(_ context.Context, s *State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[s.SessionID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

// List returns all sessions, most recently updated first
func (m *MemoryStore) List(ctx context.Context) ([]*State, error) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	out := make([]*State, 0, len(ids))
	for _, id := range ids {
		s, err := m.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
