// Package repository defines the contract of a concert repository: the
// server-side authority that owns all concerts and assigns their ids.
//
// The package focuses on:
//   - The IConcertRepository interface shared by local and remote implementations
//   - The Error type with return codes that survive the rpc boundary
//
// Implementations:
//
//   - lrepo: The in-memory repository. All operations are serialized by a
//     single mutex, ids come from a creation counter that is only reset by
//     Clear.
//
//   - rpc/client: A proxy that forwards every operation to a remote
//     repository. It satisfies the same interface, so callers do not care
//     whether the repository lives in the same process or on a server.
//
// Id Assignment:
//
//	The n-th successful Create since the last Clear receives id n-1. Deletes
//	do not give ids back, so a freshly created concert never collides with a
//	stored one. Clear resets the counter, ids are therefore only unique
//	between two Clear calls.
//
// Capacity:
//
//	A repository holds at most a configured number of concerts at the same
//	time. Create on a full repository fails with ErrCapacityExceeded. Deleting
//	concerts frees capacity again.
//
// Usage Example:
//
//	repo := lrepo.NewLocalRepository(100)
//
//	created, err := repo.Create(concert.New("Odesza", date))
//	if errors.Is(err, repository.ErrCapacityExceeded) {
//	    // repository is full
//	}
//
//	id, _ := created.ID()
//	c, found, _ := repo.Get(id)
package repository
