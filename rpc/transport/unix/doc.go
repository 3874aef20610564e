// Package unix implements the transport of the concert repository's RPC system
// on Unix domain sockets, for clients running on the same machine as the server.
//
// This package extends the base transport layer with Unix socket connectors
// while inheriting connection pooling, request routing and error handling from
// the base package. A stale socket file at the endpoint is removed before
// listening.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners and accepts connections
//
// The default server buffer size is 64 KB.
package unix
