// Package testing provides a standardised test suite for implementations
// of the repository.IConcertRepository interface.
//
// The same suite is run against the in-memory repository and against the
// rpc client (for every transport and serializer), which makes sure that a
// remote repository behaves exactly like a local one.
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func(t *testing.T, maxConcerts int) repository.IConcertRepository {
//		return NewMyRepository(maxConcerts)
//	}
//
//	// Running the standard test suite
//	repotesting.RunRepositoryTests(t, "MyRepository", factory)
package testing
