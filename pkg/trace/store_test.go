package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-weft/weft/pkg/engine"
	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
)

// The session must keep satisfying the runtime's recorder contract.
var _ engine.Recorder = (*Session)(nil)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	require.NoError(t, err, "database file exists")

	// Reopening is idempotent and leaves the schema intact.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	for _, table := range []string{"sessions", "cascades", "transitions"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		assert.NoError(t, err, "table %q", table)
	}
}

func TestSessionRecordsAndReplays(t *testing.T) {
	s := openTemp(t)

	se, err := s.Begin("toggle run")
	require.NoError(t, err)
	require.NotEmpty(t, se.ID())

	// Feed the stream the way a draining runtime would.
	se.Cascade(1, "write", "check.checked")
	se.Transition(1, "check.checked", property.Bool(false), property.Bool(true))
	se.Transition(1, "check.background", property.ColorValue(0xffffffff), property.ColorValue(0xff6750a4))
	se.Cascade(2, "key", "Space")
	se.Transition(2, "check.checked", property.Bool(true), property.Bool(false))

	cascades, err := s.Replay(se.ID())
	require.NoError(t, err)
	require.Len(t, cascades, 2)

	assert.Equal(t, uint64(1), cascades[0].Seq)
	assert.Equal(t, "write", cascades[0].Kind)
	assert.Equal(t, "check.checked", cascades[0].Detail)
	require.Len(t, cascades[0].Transitions, 2)
	assert.Equal(t, Transition{Cell: "check.checked", Old: "false", New: "true"}, cascades[0].Transitions[0])
	assert.Equal(t, "#ff6750a4", cascades[0].Transitions[1].New)

	assert.Equal(t, uint64(2), cascades[1].Seq)
	require.Len(t, cascades[1].Transitions, 1)

	infos, err := s.Sessions()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, se.ID(), infos[0].ID)
	assert.Equal(t, "toggle run", infos[0].Label)
	assert.Equal(t, 2, infos[0].Cascades)
	assert.False(t, infos[0].StartedAt.IsZero())
}

func TestSessionsAreIsolated(t *testing.T) {
	s := openTemp(t)

	a, err := s.Begin("first")
	require.NoError(t, err)
	b, err := s.Begin("second")
	require.NoError(t, err)

	a.Cascade(1, "write", "x")
	b.Cascade(1, "tick", "")
	b.Cascade(2, "write", "y")

	ca, err := s.Replay(a.ID())
	require.NoError(t, err)
	cb, err := s.Replay(b.ID())
	require.NoError(t, err)
	assert.Len(t, ca, 1)
	assert.Len(t, cb, 2)
}

func TestReplayUnknownSession(t *testing.T) {
	s := openTemp(t)
	_, err := s.Replay("no-such-session")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown session")
}

func TestReplayOrphanTransitions(t *testing.T) {
	s := openTemp(t)
	se, err := s.Begin("")
	require.NoError(t, err)

	// A lost cascade row must not hide its transitions.
	se.Transition(7, "a.b", property.Int(1), property.Int(2))

	cascades, err := s.Replay(se.ID())
	require.NoError(t, err)
	require.Len(t, cascades, 1)
	assert.Equal(t, uint64(7), cascades[0].Seq)
	assert.Equal(t, "unknown", cascades[0].Kind)
	require.Len(t, cascades[0].Transitions, 1)
}

type captureHandler struct {
	errs []*errors.WeftError
}

func (h *captureHandler) HandleError(err *errors.WeftError) { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(*errors.PanicError)    {}

func TestRecordFailureIsReportedNotFatal(t *testing.T) {
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })

	s := openTemp(t)
	se, err := s.Begin("doomed")
	require.NoError(t, err)

	// Kill the database under the session; recording must degrade to
	// reports instead of failing the caller.
	require.NoError(t, s.Close())
	se.Cascade(1, "write", "x")
	se.Transition(1, "a", property.Int(0), property.Int(1))

	require.NotEmpty(t, h.errs)
	for _, e := range h.errs {
		assert.Equal(t, errors.KindStorage, e.Kind)
	}
}
