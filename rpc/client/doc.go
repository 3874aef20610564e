// Package client implements the RPC client of the concert repository. The
// client implements repository.IConcertRepository, so code written against a
// local repository works unchanged with a remote one.
//
// Key Components:
//
//   - NewRPCConcertRepository: Connects the transport, looks up the named
//     service and returns a repository proxy forwarding every operation to
//     the server.
//
//   - Lookup: Checks that a service is bound under a name, using a ping request.
//
// Errors:
//
//	Repository errors are rebuilt from the return code of the response, so
//	errors.Is(err, repository.ErrCapacityExceeded) works on the client. Failures
//	of the transport wrap ErrTransport, a missing service yields ErrNotBound.
//	Absence (Get, Update, Delete of an unknown id) is reported as false.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:8080"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	repo, err := client.NewRPCConcertRepository(
//	  common.DefaultServiceName,
//	  config,
//	  tcp.NewTCPClientTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//	if err != nil {
//	  log.Fatal(err)
//	}
//
//	created, _ := repo.Create(concert.New("Odesza", time.Now()))
//	id, _ := created.ID()
//	c, found, _ := repo.Get(id)
//
// Thread Safety:
//
//	The client is safe for concurrent use by multiple goroutines.
package client
