// Package base provides the protocol independent part of the stream based
// transports (TCP and Unix sockets). The concrete transports only supply a
// connector that opens connections and applies socket options.
//
// Frame format:
//
//	Every request and response is sent as a frame of
//	8 bytes service id, 8 bytes request id, 4 bytes payload length
//	(all big endian) followed by the payload. The server answers with the
//	request id of the request, so a single connection can carry many
//	requests at the same time.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific
//     operations that allow extending the base transport with different
//     network protocols.
//
//   - clientTransport: Manages several connections per endpoint and picks them
//     round-robin. Responses are matched to waiting requests by request id.
//     Failed requests are retried with exponential backoff. A broken connection
//     fails all of its pending requests and is re-established.
//
//   - serverTransport: Accepts connections and dispatches every frame to a
//     bounded number of worker goroutines per connection. Buffers for reading
//     frames are reused through a sync.Pool. Close stops the accept loop and
//     closes all open connections.
//
// Thread Safety:
//
//	All public methods are safe for concurrent use.
package base
