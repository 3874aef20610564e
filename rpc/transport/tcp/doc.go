// Package tcp implements the TCP socket transport of the concert repository's
// RPC system. It provides implementations of the base package's connector
// interfaces for TCP connections.
//
// This package builds on the base package's transport functionality, inheriting
// connection pooling, buffer reuse and request routing. See the base package
// documentation for details on the underlying transport.
//
// Key Components:
//
//   - clientConnector: TCP implementation of base.IClientConnector
//
//   - serverConnector: TCP implementation of base.IServerConnector
//
// Both sides apply the SocketConf and TCPConf options of their configuration
// to every connection (no delay, keep alive, linger and socket buffer sizes).
//
// The default server buffer size is set to 512 KB.
package tcp
