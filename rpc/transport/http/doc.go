// Package http implements an HTTP based transport for the RPC system of the
// concert repository. Every request is a POST to /{serviceId} whose body is the
// serialized message, the response body is the serialized answer.
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport. It selects the server
//     endpoints round-robin, retries failed requests and applies the client
//     timeout to the whole request.
//
//   - httpServerTransport: Implements IRPCServerTransport on top of net/http.
//     The service id is taken from the URL path. If the log level is debug,
//     every request is logged with its status and duration.
//
// Thread Safety:
//
//	The client transport is safe for concurrent use. It uses an atomic counter
//	for the round-robin selection of the server endpoint.
package http
