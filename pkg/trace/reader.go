package trace

import (
	"fmt"
	"sort"
	"time"
)

// SessionInfo summarizes one recorded session.
type SessionInfo struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	StartedAt time.Time `json:"started_at"`
	Cascades  int       `json:"cascades"`
}

// Sessions lists every session in the store, oldest first.
func (s *Store) Sessions() ([]SessionInfo, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.label, s.started_at, COUNT(c.seq)
		FROM sessions s
		LEFT JOIN cascades c ON c.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var started string
		if err := rows.Scan(&info.ID, &info.Label, &started, &info.Cascades); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, started); err == nil {
			info.StartedAt = ts
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Transition is one committed value change, rendered the way the
// runtime saw it.
type Transition struct {
	Cell string `json:"cell"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// Cascade is one replayed cascade with its transitions in commit order.
type Cascade struct {
	Seq         uint64       `json:"seq"`
	Kind        string       `json:"kind"`
	Detail      string       `json:"detail,omitempty"`
	Transitions []Transition `json:"transitions,omitempty"`
}

// Replay returns a session's cascades in sequence order. Transitions
// recorded without a cascade row (a best-effort stream can lose either
// side) come back under a cascade of kind "unknown".
func (s *Store) Replay(sessionID string) ([]Cascade, error) {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("unknown session %q", sessionID)
	}

	bySeq := make(map[uint64]*Cascade)
	rows, err := s.db.Query(
		`SELECT seq, kind, detail FROM cascades WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read cascades: %w", err)
	}
	for rows.Next() {
		var c Cascade
		var seq int64
		if err := rows.Scan(&seq, &c.Kind, &c.Detail); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cascade: %w", err)
		}
		c.Seq = uint64(seq)
		bySeq[c.Seq] = &c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trows, err := s.db.Query(
		`SELECT seq, cell, old_value, new_value FROM transitions WHERE session_id = ? ORDER BY ord`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("read transitions: %w", err)
	}
	for trows.Next() {
		var tr Transition
		var seq int64
		if err := trows.Scan(&seq, &tr.Cell, &tr.Old, &tr.New); err != nil {
			trows.Close()
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		c, ok := bySeq[uint64(seq)]
		if !ok {
			c = &Cascade{Seq: uint64(seq), Kind: "unknown"}
			bySeq[uint64(seq)] = c
		}
		c.Transitions = append(c.Transitions, tr)
	}
	trows.Close()
	if err := trows.Err(); err != nil {
		return nil, err
	}

	out := make([]Cascade, 0, len(bySeq))
	for _, c := range bySeq {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}
