package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultSessionTtl = 30 * time.Minute

// Registry owns the live sessions. A session lives until it has been idle
// for longer than the ttl and a Sweep runs.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	tracked  []string
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(tracked []string, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTtl
	}
	return &Registry{
		sessions: make(map[string]*Session),
		tracked:  tracked,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open returns the session for id, or a new session when id is unknown.
// Ids that are not uuids are replaced. created reports whether a new
// session was made.
func (r *Registry) Open(id string) (session *Session, created bool) {
	if _, err := uuid.Parse(id); err != nil {
		id = ""
	}
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && id != "" {
		s.touch(now)
		return s, false
	}
	s := newSession(id, r.tracked, now)
	r.sessions[s.Id] = s
	return s, true
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.WithField("removed", removed).Debug("Swept idle sessions")
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run sweeps idle sessions every interval until ctx ends.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}
