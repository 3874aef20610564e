package lrepo

import (
	"fmt"
	"sync"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("repository")

// record is the server side wrapper of a stored concert.
// The id is fixed when the record is created. Update may replace the wrapped
// concert, but never the id the record is keyed by.
type record struct {
	id      int64
	details concert.Concert
}

func newRecord(id int64, details concert.Concert) record {
	return record{
		id:      id,
		details: details,
	}
}

// concert returns a copy of the wrapped concert carrying the record id
func (r record) concert() concert.Concert {
	return r.details.WithID(r.id)
}

type repositoryImpl struct {
	mu          sync.Mutex
	concerts    map[int64]record
	nextID      int64 // successful creates since the last clear
	maxConcerts int
}

// NewLocalRepository creates a new in-memory concert repository that holds at
// most maxConcerts concerts at the same time. A non-positive maxConcerts
// means the repository is unbounded.
//
// Thread-safety: all methods are safe for concurrent use. Every operation
// holds the repository mutex for its whole duration.
func NewLocalRepository(maxConcerts int) repository.IConcertRepository {
	return &repositoryImpl{
		concerts:    make(map[int64]record),
		maxConcerts: maxConcerts,
	}
}

// full reports whether another concert can be created (caller must hold mu)
func (r *repositoryImpl) full() bool {
	return r.maxConcerts > 0 && len(r.concerts) >= r.maxConcerts
}

// --------------------------------------------------------------------------
// Interface Methods (docu see repository/interface.go)
// --------------------------------------------------------------------------

func (r *repositoryImpl) Create(c concert.Concert) (concert.Concert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.full() {
		return concert.Concert{}, repository.NewError(
			repository.RetCCapacityExceeded,
			fmt.Sprintf("repository holds the maximum of %d concerts", r.maxConcerts),
		)
	}

	id := r.nextID
	rec := newRecord(id, c)
	r.concerts[id] = rec
	r.nextID++

	log.Debugf("created concert %d (%d/%d stored)", id, len(r.concerts), r.maxConcerts)
	return rec.concert(), nil
}

func (r *repositoryImpl) Get(id int64) (concert.Concert, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.concerts[id]
	if !ok {
		return concert.Concert{}, false, nil
	}
	return rec.concert(), true, nil
}

func (r *repositoryImpl) Update(c concert.Concert) (bool, error) {
	id, ok := c.ID()
	if !ok {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.concerts[id]; !exists {
		return false, nil
	}
	r.concerts[id] = newRecord(id, c)
	return true, nil
}

func (r *repositoryImpl) Delete(id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.concerts[id]; !exists {
		return false, nil
	}
	delete(r.concerts, id)
	return true, nil
}

func (r *repositoryImpl) List() ([]concert.Concert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	concerts := make([]concert.Concert, 0, len(r.concerts))
	for _, rec := range r.concerts {
		concerts = append(concerts, rec.concert())
	}
	return concerts, nil
}

func (r *repositoryImpl) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.concerts)
	r.nextID = 0
	return nil
}
