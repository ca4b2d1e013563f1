package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/boolmaze-server/internal/boolmaze"
)

// Session is one maze module being played. All presses go through the
// session mutex so each one finishes, digit included, before the next.
type Session struct {
	ID        uuid.UUID
	ModuleID  int
	StartedAt time.Time

	mu       sync.Mutex
	maze     *boolmaze.Maze
	endedAt  *time.Time
	lastSeen time.Time
	strikes  int
	presses  int
	last     *boolmaze.Result

	now     func() time.Time
	onSolve func(Snapshot)
}

type Snapshot struct {
	ID        uuid.UUID        `json:"id"`
	ModuleID  int              `json:"module_id"`
	Maze      boolmaze.State   `json:"maze"`
	Strikes   int              `json:"strikes"`
	Presses   int              `json:"presses"`
	StartedAt time.Time        `json:"started_at"`
	EndedAt   *time.Time       `json:"ended_at,omitempty"`
	LastSeen  time.Time        `json:"last_seen"`
	Last      *boolmaze.Result `json:"last,omitempty"`
	Render    string           `json:"-"`
}

func (s Snapshot) Solved() bool {
	return s.Maze.Solved
}

func (s *Session) Press(b boolmaze.Button) boolmaze.Result {
	s.mu.Lock()
	res := s.maze.Press(b)
	solved := s.account(res)
	snap := s.snapshot()
	s.mu.Unlock()

	if solved && s.onSolve != nil {
		s.onSolve(snap)
	}
	return res
}

// Execute applies newline-separated remote commands. Unknown commands are
// skipped and nothing after the solving press is applied.
func (s *Session) Execute(text string) []boolmaze.Result {
	s.mu.Lock()
	results := s.maze.ExecuteAll(text)
	solved := false
	for _, res := range results {
		solved = s.account(res) || solved
	}
	if len(results) == 0 {
		s.lastSeen = s.now()
	}
	snap := s.snapshot()
	s.mu.Unlock()

	if solved && s.onSolve != nil {
		s.onSolve(snap)
	}
	return results
}

// account updates counters for one press and reports whether it solved the
// maze.
func (s *Session) account(res boolmaze.Result) bool {
	s.lastSeen = s.now()
	if res.Ignored {
		return false
	}
	s.presses += 1
	if res.Strike() {
		s.strikes += 1
	}
	s.last = &res
	if res.Solved() {
		ended := s.lastSeen
		s.endedAt = &ended
		return true
	}
	return false
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:        s.ID,
		ModuleID:  s.ModuleID,
		Maze:      s.maze.State(),
		Strikes:   s.strikes,
		Presses:   s.presses,
		StartedAt: s.StartedAt,
		LastSeen:  s.lastSeen,
		Render:    s.maze.String(),
	}
	if s.endedAt != nil {
		ended := *s.endedAt
		snap.EndedAt = &ended
	}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	return snap
}

// expired reports whether the session has been left alone for longer than
// idle. Solved sessions count from the moment they were solved.
func (s *Session) expired(now time.Time, idle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	since := s.lastSeen
	if s.endedAt != nil {
		since = *s.endedAt
	}
	return now.Sub(since) > idle
}
