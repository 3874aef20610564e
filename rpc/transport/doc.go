// Package transport defines the interfaces for the RPC communication of the
// concert repository. Every transport moves opaque byte slices, the messages
// are serialized by the serializer package.
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receives requests and hands them to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks. Every request
//     carries the id of the addressed service (see common.ServiceID).
//
// Implementations exist for TCP, Unix domain sockets (both built on the base
// package) and HTTP.
package transport
