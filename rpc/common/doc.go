// Package common provides the data structures shared by the rpc client and
// server of the concert repository. It defines the message protocol, the
// configuration structures and the logging setup used by the other packages.
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication. The same struct
//     is used for requests and responses, which fields are set depends on the
//     MessageType. Factory functions exist for every request and response.
//     Errors travel as a repository.RetCode plus message, so the client can
//     rebuild the typed repository error (see Message.RepositoryError).
//
//   - MessageType: Enumeration of all supported operations, the repository
//     operations (create, get, update, delete, list, clear) and the control
//     messages (ping, error, unknown service).
//
//   - ServiceID: Maps a service name to the routing id carried in every frame.
//     A server can bind several named repositories, clients select one by name.
//
//   - ServerConfig / ClientConfig: Configuration of the server (services,
//     transport, timeouts, metrics) and of the client (endpoints, retries,
//     connections per endpoint).
//
//   - Logger: Custom formatting for the dragonboat logger facade, which is
//     used as the logging interface throughout the module.
package common
