package lrepo

import (
	"testing"
	"time"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
	repotesting "github.com/ValentinKolb/dConcert/lib/repository/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test(t *testing.T) {
	repotesting.RunRepositoryTests(t, "LocalRepository", func(_ *testing.T, maxConcerts int) repository.IConcertRepository {
		return NewLocalRepository(maxConcerts)
	})
}

func TestStoredIDIsFixedByRecord(t *testing.T) {
	repo := NewLocalRepository(10).(*repositoryImpl)
	date := time.Date(2019, 5, 1, 20, 0, 0, 0, time.UTC)

	created, err := repo.Create(concert.NewWithID(99, "Odesza", date))
	require.NoError(t, err)

	id, ok := created.ID()
	require.True(t, ok)
	assert.Equal(t, int64(0), id)

	// the record keeps its key as id no matter what the wrapped concert carries
	rec := repo.concerts[0]
	assert.Equal(t, int64(0), rec.id)
	id, _ = rec.concert().ID()
	assert.Equal(t, int64(0), id)
}

func TestCapacityErrorIsTyped(t *testing.T) {
	repo := NewLocalRepository(1)
	_, err := repo.Create(concert.New("first", time.Time{}))
	require.NoError(t, err)

	_, err = repo.Create(concert.New("second", time.Time{}))
	require.ErrorIs(t, err, repository.ErrCapacityExceeded)

	var repoErr *repository.Error
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, repository.RetCCapacityExceeded, repoErr.Code)
	assert.Contains(t, err.Error(), "CapacityExceeded")
}

func TestUnboundedRepository(t *testing.T) {
	repo := NewLocalRepository(0)
	for i := 0; i < 1000; i++ {
		_, err := repo.Create(concert.New("c", time.Time{}))
		require.NoError(t, err)
	}
	concerts, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, concerts, 1000)
}
