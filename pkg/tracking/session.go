package tracking

import (
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matst80/slask-storefront/pkg/types"
)

// Session carries the tracked query parameters of one visitor so every link
// generated for them keeps those parameters.
type Session struct {
	Id      string
	Started time.Time

	mu       sync.RWMutex
	tracked  []string
	params   url.Values
	lastSeen time.Time
}

func newSession(id string, tracked []string, now time.Time) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		Id:       id,
		Started:  now,
		tracked:  tracked,
		params:   url.Values{},
		lastSeen: now,
	}
}

// Track stores the tracked parameters present in query. Later values replace
// earlier ones.
func (s *Session) Track(query url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range s.tracked {
		if v := query.Get(name); v != "" {
			s.params.Set(name, v)
		}
	}
}

func (s *Session) Params() url.Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make(url.Values, len(s.params))
	for k, v := range s.params {
		ret[k] = slices.Clone(v)
	}
	return ret
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// EnsureTrackedParameters appends the session's tracked parameters that
// rawUrl does not already carry, using the url grammar in d. The no-index
// sentinel and empty urls are returned unchanged.
func (s *Session) EnsureTrackedParameters(rawUrl string, d types.Delimiters) string {
	if s == nil || rawUrl == "" || rawUrl == "#" {
		return rawUrl
	}
	_, query, _ := strings.Cut(rawUrl, d.BetweenFacetsAndOptions)
	existing := map[string]bool{}
	for _, pair := range strings.Split(query, d.BetweenDifferentOptions) {
		name, _, _ := strings.Cut(pair, d.BetweenOptionNameAndValue)
		if name != "" {
			existing[name] = true
		}
	}

	params := s.Params()
	names := make([]string, 0, len(params))
	for name := range params {
		if !existing[name] {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return rawUrl
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString(rawUrl)
	first := query == ""
	for _, name := range names {
		for _, value := range params[name] {
			if first {
				b.WriteString(d.BetweenFacetsAndOptions)
				first = false
			} else {
				b.WriteString(d.BetweenDifferentOptions)
			}
			b.WriteString(url.QueryEscape(name))
			b.WriteString(d.BetweenOptionNameAndValue)
			b.WriteString(url.QueryEscape(value))
		}
	}
	return b.String()
}
