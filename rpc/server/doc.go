// Package server implements the RPC server of the concert repository. It binds
// one or more named repositories and routes every request to the repository
// addressed by the service id in the transport frame.
//
// Key Components:
//
//   - IRPCServer: Bind publishes a repository under a name, Serve creates the
//     configured services and blocks on the transport, Close shuts everything down.
//
//   - IRPCServerAdapter: Translates a request message into a call of the
//     repository.IConcertRepository and the result into a response message.
//     NewConcertRepositoryServerAdapter is the implementation for concerts.
//
//   - Metrics: Every handled request is counted per service and operation,
//     failed requests per return code, and the handling time is recorded in a
//     histogram. If a metrics endpoint is configured, the values are served in
//     the prometheus text format under /metrics.
//
// Routing:
//
//	A request for an id without a bound service is answered with a
//	MsgTUnknownService message, which the client reports as ErrNotBound.
//	Ping requests are answered by the server itself with the name of the
//	service, which lets clients verify a service before using it.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Services:      []common.ServerService{{Name: "concerts", MaxConcerts: 100}},
//	  TimeoutSecond: 5,
//	  Transport:     common.ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
//	  LogLevel:      "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	Requests are handled concurrently, every repository serializes its own
//	operations. Serve must be called only once.
package server
