// Package rpc provides the remote procedure call layer of dConcert. It carries
// repository operations from a client process to the server that owns the
// concerts and brings the results back.
//
// The package is organized into several subpackages:
//
//   - common: The Message protocol, configuration structures, service naming
//     and logging shared by client and server.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: A repository.IConcertRepository that forwards every call to a
//     named service on a remote server.
//
//   - server: Hosts named repositories, dispatches requests to them and
//     exposes request metrics.
package rpc
