// Package registry implements the process-wide session map (C6): id ->
// Session lookup with short-prefix resolution and active-session tracking.
// It is the single source of truth for "does this session exist" — stale
// ids never silently resolve.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/ekainfr/vtauto/internal/errs"
	"github.com/ekainfr/vtauto/internal/session"
)

// Registry maps session ids to Sessions and tracks which one is "active"
// (used when callers omit an explicit session reference). Guarded by its
// own reader-writer lock; lookups release the lock before doing any
// work on the returned Session, to avoid contention.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	order    []string // insertion order, for active-session succession
	active   string
}

// New builds an empty Registry.
func New() *Registry {
	return &Registry{sessions: make(map[string]*session.Session)}
}

// Create inserts s by its id. If no session is currently active, s becomes
// active.
func (r *Registry) Create(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)
	if r.active == "" {
		r.active = s.ID
	}
}

// Lookup resolves idOrPrefix to a Session: exact match first, then a
// unique-prefix match; an empty string resolves to the active session.
func (r *Registry) Lookup(idOrPrefix string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(idOrPrefix)
}

func (r *Registry) lookupLocked(idOrPrefix string) (*session.Session, error) {
	if idOrPrefix == "" {
		if r.active == "" {
			return nil, errs.New(errs.NotFound, "no active session")
		}
		idOrPrefix = r.active
	}
	if s, ok := r.sessions[idOrPrefix]; ok {
		return s, nil
	}
	var matches []*session.Session
	for id, s := range r.sessions {
		if strings.HasPrefix(id, idOrPrefix) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errs.New(errs.NotFound, "no session matches %q", idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, errs.New(errs.Ambiguous, "prefix %q matches %d sessions", idOrPrefix, len(matches))
	}
}

// Active returns the active session, if any and if it is still running.
func (r *Registry) Active() (*session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == "" {
		return nil, false
	}
	s, ok := r.sessions[r.active]
	if !ok || !s.Running() {
		return nil, false
	}
	return s, true
}

// SetActive marks id as the active session; it must exist and be running.
func (r *Registry) SetActive(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.lookupLocked(id)
	if err != nil {
		return err
	}
	if !s.Running() {
		return errs.New(errs.NotRunning, "session %s is not running", s.ID)
	}
	r.active = s.ID
	return nil
}

// Remove deletes id from the registry. If it was active, the next running
// session in insertion order becomes active, else active is cleared.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.active == id {
		r.active = ""
		for _, oid := range r.order {
			if s, ok := r.sessions[oid]; ok && s.Running() {
				r.active = oid
				break
			}
		}
	}
}

// List returns every session's metadata, ordered by insertion.
func (r *Registry) List() []session.Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]session.Info, 0, len(r.order))
	for _, id := range r.order {
		if s, ok := r.sessions[id]; ok {
			infos = append(infos, s.Info())
		}
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].CreatedAt.Before(infos[j].CreatedAt) })
	return infos
}

// ActiveID returns the current active session id, or "" if none.
func (r *Registry) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// All returns every live Session, for shutdown fan-out.
func (r *Registry) All() []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*session.Session, 0, len(r.sessions))
	for _, id := range r.order {
		if s, ok := r.sessions[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
