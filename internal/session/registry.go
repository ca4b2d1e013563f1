package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/boolmaze-server/internal/boolmaze"
)

var ErrSessionNotFound = errors.New("session not found")

// SolveHook is called once for every session that gets solved.
type SolveHook func(Snapshot)

// Registry keeps live sessions in memory.
type Registry struct {
	logger *logrus.Logger

	mu           sync.RWMutex
	sessions     map[uuid.UUID]*Session
	lastModuleID int
	rnd          *rand.Rand
	hooks        []SolveHook

	now     func() time.Time
	sources func() boolmaze.Source
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithSources replaces the digit source handed to each new maze. By default
// every maze gets its own PCG seeded from the registry generator.
func WithSources(sources func() boolmaze.Source) Option {
	return func(r *Registry) {
		r.sources = sources
	}
}

func NewRegistry(logger *logrus.Logger, rnd *rand.Rand, opts ...Option) *Registry {
	r := &Registry{
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
		rnd:      rnd,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) OnSolve(hook SolveHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

func (r *Registry) notify(snap Snapshot) {
	r.mu.RLock()
	hooks := make([]SolveHook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.RUnlock()

	r.logger.WithFields(logrus.Fields{
		"session": snap.ID,
		"module":  snap.ModuleID,
		"strikes": snap.Strikes,
		"presses": snap.Presses,
	}).Info("session solved")

	for _, hook := range hooks {
		hook(snap)
	}
}

// Create starts a new session. An empty serial gets a random one.
func (r *Registry) Create(serial string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if serial == "" {
		serial = GenerateSerial(r.rnd)
	}

	var src boolmaze.Source
	if r.sources != nil {
		src = r.sources()
	} else {
		src = rand.New(rand.NewPCG(r.rnd.Uint64(), r.rnd.Uint64()))
	}

	moduleID := r.lastModuleID + 1
	maze, err := boolmaze.New(
		serial, src,
		boolmaze.WithModuleID(moduleID),
		boolmaze.WithLogger(r.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create maze: %w", err)
	}
	r.lastModuleID = moduleID

	now := r.now()
	s := &Session{
		ID:        uuid.New(),
		ModuleID:  moduleID,
		StartedAt: now,
		maze:      maze,
		lastSeen:  now,
		now:       r.now,
		onSolve:   r.notify,
	}
	r.sessions[s.ID] = s

	r.logger.WithFields(logrus.Fields{
		"session": s.ID,
		"module":  moduleID,
		"serial":  maze.Serial(),
	}).Debug("session created")

	return s, nil
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Lookup is Get for an id in its string form.
func (r *Registry) Lookup(id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return r.Get(parsed)
}

func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Reap removes sessions idle for longer than idle and returns how many were
// removed.
func (r *Registry) Reap(ctx context.Context, idle time.Duration) int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if ctx.Err() != nil {
			break
		}
		if s.expired(now, idle) {
			delete(r.sessions, id)
			removed += 1
		}
	}

	if removed > 0 {
		r.logger.WithFields(logrus.Fields{
			"removed":   removed,
			"remaining": len(r.sessions),
		}).Info("reaped idle sessions")
	}
	return removed
}

// Run reaps sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Reap(ctx, idle)
		}
	}
}
