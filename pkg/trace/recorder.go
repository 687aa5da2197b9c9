package trace

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
)

// Session records one runtime's cascade stream into the store. It
// satisfies the runtime's recorder contract; attach it before the
// runtime starts and every cascade lands here.
//
// Methods never return errors: a failed insert is reported with kind
// storage and the stream continues.
type Session struct {
	store *Store
	id    string

	mu  sync.Mutex
	ord int64
}

// Begin opens a new recording session. The label is free-form, shown
// when sessions are listed.
func (s *Store) Begin(label string) (*Session, error) {
	id := uuid.NewString()
	started := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.Exec(
		`INSERT INTO sessions (id, label, started_at) VALUES (?, ?, ?)`,
		id, label, started,
	); err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}
	return &Session{store: s, id: id}, nil
}

// ID returns the session's token, used to select it for replay.
func (se *Session) ID() string { return se.id }

// Cascade records the start of cascade seq.
func (se *Session) Cascade(seq uint64, kind, detail string) {
	if _, err := se.store.db.Exec(
		`INSERT INTO cascades (session_id, seq, kind, detail) VALUES (?, ?, ?, ?)`,
		se.id, int64(seq), kind, detail,
	); err != nil {
		se.fail("trace.Session.Cascade", err)
	}
}

// Transition records one committed value change inside cascade seq.
func (se *Session) Transition(seq uint64, cell string, old, new property.Value) {
	se.mu.Lock()
	ord := se.ord
	se.ord++
	se.mu.Unlock()

	if _, err := se.store.db.Exec(
		`INSERT INTO transitions (session_id, ord, seq, cell, old_value, new_value)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		se.id, ord, int64(seq), cell, old.String(), new.String(),
	); err != nil {
		se.fail("trace.Session.Transition", err)
	}
}

func (se *Session) fail(op string, err error) {
	errors.Report(&errors.WeftError{
		Op:   op,
		Kind: errors.KindStorage,
		Err:  err,
	})
}
