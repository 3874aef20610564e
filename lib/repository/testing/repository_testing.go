package testing

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
)

// RepositoryFactory creates a new, empty repository holding at most maxConcerts concerts.
// Implementations may register cleanup functions on t.
type RepositoryFactory func(t *testing.T, maxConcerts int) repository.IConcertRepository

// defaultCapacity is used by all tests that do not test the capacity bound
const defaultCapacity = 100

// testDate is the date used by the scenario tests
var testDate = time.Date(1, 1, 1, 1, 1, 0, 0, time.UTC)

// RunRepositoryTests runs a comprehensive test suite for an IConcertRepository implementation.
func RunRepositoryTests(t *testing.T, name string, factory RepositoryFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("CreateAssignsIDs", func(t *testing.T) {
			testCreateAssignsIDs(t, factory(t, defaultCapacity))
		})

		t.Run("Get", func(t *testing.T) {
			testGet(t, factory(t, defaultCapacity))
		})

		t.Run("Update", func(t *testing.T) {
			testUpdate(t, factory(t, defaultCapacity))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory(t, defaultCapacity))
		})

		t.Run("List", func(t *testing.T) {
			testList(t, factory(t, defaultCapacity))
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory(t, defaultCapacity))
		})

		t.Run("Capacity", func(t *testing.T) {
			testCapacity(t, factory(t, 3))
		})

		t.Run("Scenario", func(t *testing.T) {
			testScenario(t, factory(t, defaultCapacity))
		})

		t.Run("ConcurrentCreates", func(t *testing.T) {
			testConcurrentCreates(t, factory(t, 0))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustCreate(t *testing.T, repo repository.IConcertRepository, c concert.Concert) concert.Concert {
	t.Helper()
	created, err := repo.Create(c)
	if err != nil {
		t.Fatalf("Create(%s) failed: %v", c, err)
	}
	return created
}

func mustList(t *testing.T, repo repository.IConcertRepository) []concert.Concert {
	t.Helper()
	concerts, err := repo.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	return concerts
}

func mustID(t *testing.T, c concert.Concert) int64 {
	t.Helper()
	id, ok := c.ID()
	if !ok {
		t.Fatalf("Expected %s to have an id", c)
	}
	return id
}

// contains reports whether the list holds a concert equal to c
func contains(concerts []concert.Concert, c concert.Concert) bool {
	for _, other := range concerts {
		if other.Equal(c) {
			return true
		}
	}
	return false
}

// sameSet reports whether both lists hold the same concerts (order ignored)
func sameSet(a, b []concert.Concert) bool {
	if len(a) != len(b) {
		return false
	}
	for _, c := range a {
		if !contains(b, c) {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testCreateAssignsIDs(t *testing.T, repo repository.IConcertRepository) {
	const n = 10

	for i := 0; i < n; i++ {
		// the client supplied id must be ignored
		created := mustCreate(t, repo, concert.NewWithID(42, fmt.Sprintf("concert-%d", i), testDate))

		if id := mustID(t, created); id != int64(i) {
			t.Errorf("Expected create #%d to assign id %d, got %d", i, i, id)
		}
		if created.Title() != fmt.Sprintf("concert-%d", i) {
			t.Errorf("Expected title concert-%d, got %s", i, created.Title())
		}
		if !created.Date().Equal(testDate) {
			t.Errorf("Expected date %v, got %v", testDate, created.Date())
		}
	}

	if got := len(mustList(t, repo)); got != n {
		t.Errorf("Expected %d concerts, got %d", n, got)
	}
}

func testGet(t *testing.T, repo repository.IConcertRepository) {
	created := mustCreate(t, repo, concert.New("Lil Yachty", testDate))

	fetched, ok, err := repo.Get(mustID(t, created))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatalf("Expected concert %s to exist", created)
	}
	if !fetched.Equal(created) {
		t.Errorf("Expected %s, got %s", created, fetched)
	}

	_, ok, err = repo.Get(12345)
	if err != nil {
		t.Fatalf("Get of unknown id failed: %v", err)
	}
	if ok {
		t.Errorf("Expected unknown id to return found=false")
	}

	_, ok, _ = repo.Get(-1)
	if ok {
		t.Errorf("Expected negative id to return found=false")
	}
}

func testUpdate(t *testing.T, repo repository.IConcertRepository) {
	replacement := concert.NewWithID(0, "Wave Racer", testDate)

	// nothing to update yet
	ok, err := repo.Update(replacement)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if ok {
		t.Errorf("Expected update of unknown id to return false")
	}
	if got := len(mustList(t, repo)); got != 0 {
		t.Errorf("Expected failed update to leave the repository empty, got %d concerts", got)
	}

	created := mustCreate(t, repo, concert.New("Wave Racr", testDate))
	if mustID(t, created) != 0 {
		t.Fatalf("Expected first concert to get id 0")
	}

	ok, err = repo.Update(replacement)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !ok {
		t.Fatalf("Expected update of existing id to return true")
	}

	fetched, found, err := repo.Get(0)
	if err != nil || !found {
		t.Fatalf("Expected concert 0 to exist after update (found=%v, err=%v)", found, err)
	}
	if !fetched.Equal(replacement) {
		t.Errorf("Expected %s after update, got %s", replacement, fetched)
	}

	// a concert without an id can never be updated
	ok, err = repo.Update(concert.New("no id", testDate))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if ok {
		t.Errorf("Expected update of concert without id to return false")
	}

	// changing a fetched concert must not change the stored one
	fetched.SetDate(testDate.Add(time.Hour))
	again, _, _ := repo.Get(0)
	if !again.Equal(replacement) {
		t.Errorf("Stored concert changed without update: %s", again)
	}
}

func testDelete(t *testing.T, repo repository.IConcertRepository) {
	created := mustCreate(t, repo, concert.New("$UCIDEBOY$", testDate))
	id := mustID(t, created)

	ok, err := repo.Delete(id)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !ok {
		t.Errorf("Expected delete of existing id to return true")
	}

	if contains(mustList(t, repo), created) {
		t.Errorf("Expected %s to be gone after delete", created)
	}
	if _, found, _ := repo.Get(id); found {
		t.Errorf("Expected Get to return found=false after delete")
	}

	ok, err = repo.Delete(id)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok {
		t.Errorf("Expected second delete to return false")
	}

	// ids are not given back by delete
	a := mustCreate(t, repo, concert.New("a", testDate))
	b := mustCreate(t, repo, concert.New("b", testDate))
	if _, err := repo.Delete(mustID(t, a)); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	c := mustCreate(t, repo, concert.New("c", testDate))

	if got := mustID(t, c); got != 3 {
		t.Errorf("Expected id 3 after three earlier creates, got %d", got)
	}
	if mustID(t, c) == mustID(t, b) {
		t.Errorf("New concert reused the id of a stored concert")
	}
	stored, found, _ := repo.Get(mustID(t, b))
	if !found || !stored.Equal(b) {
		t.Errorf("Expected %s to be untouched, got %s (found=%v)", b, stored, found)
	}
}

func testList(t *testing.T, repo repository.IConcertRepository) {
	if got := len(mustList(t, repo)); got != 0 {
		t.Fatalf("Expected empty repository, got %d concerts", got)
	}

	var created []concert.Concert
	for _, title := range []string{"Odesza", "Louis the Child", "Deaf Kev"} {
		created = append(created, mustCreate(t, repo, concert.New(title, testDate)))
	}

	listed := mustList(t, repo)
	if !sameSet(listed, created) {
		t.Errorf("Expected %v, got %v", created, listed)
	}

	// the snapshot must not be connected to the repository
	listed[0].SetDate(testDate.Add(48 * time.Hour))
	if !sameSet(mustList(t, repo), created) {
		t.Errorf("Changing a listed snapshot changed the repository")
	}

	ids := make([]int64, 0, len(created))
	for _, c := range mustList(t, repo) {
		ids = append(ids, mustID(t, c))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		if id != int64(i) {
			t.Errorf("Expected ids 0..%d, got %v", len(created)-1, ids)
			break
		}
	}
}

func testClear(t *testing.T, repo repository.IConcertRepository) {
	// clearing an empty repository is fine
	if err := repo.Clear(); err != nil {
		t.Fatalf("Clear on empty repository failed: %v", err)
	}
	if got := len(mustList(t, repo)); got != 0 {
		t.Fatalf("Expected empty repository, got %d concerts", got)
	}

	mustCreate(t, repo, concert.New("Deaf Kev", testDate))
	mustCreate(t, repo, concert.New("Odesza", testDate))
	if got := len(mustList(t, repo)); got != 2 {
		t.Fatalf("Expected 2 concerts, got %d", got)
	}

	for i := 0; i < 2; i++ {
		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear #%d failed: %v", i+1, err)
		}
		if got := len(mustList(t, repo)); got != 0 {
			t.Errorf("Expected empty repository after clear #%d, got %d concerts", i+1, got)
		}
	}

	// the id counter starts over
	created := mustCreate(t, repo, concert.New("after clear", testDate))
	if id := mustID(t, created); id != 0 {
		t.Errorf("Expected id 0 after clear, got %d", id)
	}
}

func testCapacity(t *testing.T, repo repository.IConcertRepository) {
	const maxConcerts = 3

	for i := 0; i < maxConcerts; i++ {
		mustCreate(t, repo, concert.New(fmt.Sprintf("concert-%d", i), testDate))
	}
	before := mustList(t, repo)

	_, err := repo.Create(concert.New("one too many", testDate))
	if err == nil {
		t.Fatalf("Expected create on a full repository to fail")
	}
	if !errors.Is(err, repository.ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded, got %v", err)
	}
	if !sameSet(before, mustList(t, repo)) {
		t.Errorf("Failed create changed the repository")
	}

	// deleting frees capacity, the id counter continues
	if ok, err := repo.Delete(1); err != nil || !ok {
		t.Fatalf("Delete(1) = %v, %v", ok, err)
	}
	created := mustCreate(t, repo, concert.New("fits again", testDate))
	if id := mustID(t, created); id != maxConcerts {
		t.Errorf("Expected id %d, got %d", maxConcerts, id)
	}

	// clear resets the count
	if err := repo.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	for i := 0; i < maxConcerts; i++ {
		mustCreate(t, repo, concert.New(fmt.Sprintf("concert-%d", i), testDate))
	}
}

func testScenario(t *testing.T, repo repository.IConcertRepository) {
	a := mustCreate(t, repo, concert.NewWithID(0, "Louis the Child", testDate))
	b := mustCreate(t, repo, concert.NewWithID(1, "Odesza", testDate))

	if id := mustID(t, a); id != 0 {
		t.Errorf("Expected first concert to get id 0, got %d", id)
	}
	if id := mustID(t, b); id != 1 {
		t.Errorf("Expected second concert to get id 1, got %d", id)
	}

	listed := mustList(t, repo)
	if len(listed) != 2 || !contains(listed, a) || !contains(listed, b) {
		t.Errorf("Expected list to contain exactly %s and %s, got %v", a, b, listed)
	}

	fetched, ok, err := repo.Get(0)
	if err != nil || !ok || !fetched.Equal(a) {
		t.Errorf("Expected Get(0) to return %s, got %s (found=%v, err=%v)", a, fetched, ok, err)
	}

	if err := repo.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := len(mustList(t, repo)); got != 0 {
		t.Errorf("Expected empty list after clear, got %d", got)
	}
	if _, ok, _ := repo.Get(0); ok {
		t.Errorf("Expected Get(0) to return found=false after clear")
	}
}

func testConcurrentCreates(t *testing.T, repo repository.IConcertRepository) {
	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	ids := make(chan int64, workers*perWorker)
	errs := make(chan error, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				created, err := repo.Create(concert.New(fmt.Sprintf("w%d-%d", w, i), testDate))
				if err != nil {
					errs <- err
					continue
				}
				id, _ := created.ID()
				ids <- id
			}
		}(w)
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent create failed: %v", err)
	}

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("Id %d was assigned twice", id)
		}
		seen[id] = true
	}
	for i := int64(0); i < workers*perWorker; i++ {
		if !seen[i] {
			t.Errorf("Id %d was never assigned", i)
		}
	}
}
