package storage

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/lehigh-university-libraries/booklet/internal/models"
)

var (
	ErrNotFound = errors.New("project not found")
	// ErrBusy means another operation is already running against the project
	ErrBusy = errors.New("another operation is in progress for this project")
)

// Session is a project together with the editor state kept beside it
type Session struct {
	Project models.Project
	View    models.ViewState
}

// ProjectStore keeps sessions in memory. Entries expire after ttl without use.
type ProjectStore struct {
	cache *cache.Cache
	// data serializes writes so a read that refreshes the ttl never stores
	// a session older than the one just committed
	data sync.Mutex

	mu   sync.Mutex
	busy map[string]struct{}
}

func New(ttl time.Duration) *ProjectStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	cleanup := 10 * time.Minute
	if ttl > 0 && ttl < cleanup {
		cleanup = ttl
	}
	return &ProjectStore{
		cache: cache.New(ttl, cleanup),
		busy:  make(map[string]struct{}),
	}
}

func (s *ProjectStore) Get(id string) (Session, error) {
	s.data.Lock()
	defer s.data.Unlock()

	x, found := s.cache.Get(id)
	if !found {
		return Session{}, ErrNotFound
	}
	session := x.(Session)
	// reading counts as use
	s.cache.SetDefault(id, session)
	return session, nil
}

// Put stores session under its project id, replacing any previous value
func (s *ProjectStore) Put(session Session) {
	session.View = session.View.Clamp(session.Project)

	s.data.Lock()
	defer s.data.Unlock()
	s.cache.SetDefault(session.Project.ID, session)
}

// List returns every stored session, newest project first
func (s *ProjectStore) List() []Session {
	items := s.cache.Items()
	out := make([]Session, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(Session))
	}
	slices.SortFunc(out, func(a, b Session) int {
		if c := b.Project.CreatedAt.Compare(a.Project.CreatedAt); c != 0 {
			return c
		}
		if a.Project.ID < b.Project.ID {
			return -1
		}
		if a.Project.ID > b.Project.ID {
			return 1
		}
		return 0
	})
	return out
}

func (s *ProjectStore) Delete(id string) error {
	s.data.Lock()
	defer s.data.Unlock()

	if _, found := s.cache.Get(id); !found {
		return ErrNotFound
	}
	s.cache.Delete(id)
	return nil
}

// Acquire marks id as having an operation in flight. The returned release
// must be called when the operation finishes. A second Acquire before release
// fails with ErrBusy.
func (s *ProjectStore) Acquire(id string) (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, running := s.busy[id]; running {
		return nil, ErrBusy
	}
	s.busy[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.busy, id)
			s.mu.Unlock()
		})
	}, nil
}

// Update runs fn against the stored session while holding the project's
// operation slot and stores the result when fn succeeds
func (s *ProjectStore) Update(id string, fn func(Session) (Session, error)) (Session, error) {
	release, err := s.Acquire(id)
	if err != nil {
		return Session{}, err
	}
	defer release()

	current, err := s.Get(id)
	if err != nil {
		return Session{}, err
	}
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	s.Put(next)
	return s.Get(id)
}
