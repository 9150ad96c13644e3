// Package testutil provides in-memory stand-ins for the record store and
// the notifier.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/markjakearzadon/nonprofit-gobackend.git/internal/db"
)

// MemoryStore keeps records as BSON documents per kind. Filters match on
// equality of every given field.
type MemoryStore struct {
	mu        sync.Mutex
	records   map[db.Kind][]bson.M
	InsertErr error
	UpdateErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[db.Kind][]bson.M)}
}

func (s *MemoryStore) Insert(ctx context.Context, kind db.Kind, doc interface{}) (string, error) {
	if s.InsertErr != nil {
		return "", fmt.Errorf("%w: %v", db.ErrStorage, s.InsertErr)
	}
	m, err := toDoc(doc)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[kind] = append(s.records[kind], m)
	return fmt.Sprint(idOf(m)), nil
}

func (s *MemoryStore) UpdateWhere(ctx context.Context, kind db.Kind, filter, patch bson.M) (int64, error) {
	if s.UpdateErr != nil {
		return 0, fmt.Errorf("%w: %v", db.ErrStorage, s.UpdateErr)
	}
	f, err := toDoc(filter)
	if err != nil {
		return 0, err
	}
	p, err := toDoc(patch)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, rec := range s.records[kind] {
		if !matches(rec, f) {
			continue
		}
		for k, v := range p {
			rec[k] = v
		}
		n++
	}
	return n, nil
}

// All returns copies of the stored records of kind, in insertion order.
func (s *MemoryStore) All(kind db.Kind) []bson.M {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bson.M, 0, len(s.records[kind]))
	for _, rec := range s.records[kind] {
		cp := bson.M{}
		for k, v := range rec {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out
}

// Decode loads the i-th record of kind into out.
func (s *MemoryStore) Decode(kind db.Kind, i int, out interface{}) error {
	all := s.All(kind)
	if i >= len(all) {
		return errors.New("no such record")
	}
	raw, err := bson.Marshal(all[i])
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// toDoc normalizes any document through BSON so typed values compare
// the same way the server would see them.
func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func matches(rec, filter bson.M) bool {
	for k, want := range filter {
		got, ok := rec[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func idOf(m bson.M) interface{} {
	if id, ok := m["_id"].(interface{ Hex() string }); ok {
		return id.Hex()
	}
	return m["_id"]
}

// Message is one notification captured by RecordingNotifier.
type Message struct {
	To      string
	Subject string
	Body    string
}

const AdminRecipient = "office@example.org"

// RecordingNotifier keeps every message instead of sending it.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []Message
	Err      error
}

func (n *RecordingNotifier) Send(ctx context.Context, to, subject, body string) error {
	if n.Err != nil {
		return n.Err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, Message{To: to, Subject: subject, Body: body})
	return nil
}

func (n *RecordingNotifier) NotifyAdmin(ctx context.Context, subject, body string) error {
	return n.Send(ctx, AdminRecipient, subject, body)
}

func (n *RecordingNotifier) Sent() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Message(nil), n.Messages...)
}
