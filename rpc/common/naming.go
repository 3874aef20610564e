package common

import "github.com/cespare/xxhash/v2"

// DefaultServiceName is the name the server binds its repository under if no
// other service is configured
const DefaultServiceName = "concerts"

// ServiceID maps a service name to the id used to route requests on the wire.
// Client and server derive the id the same way, so only the name has to be shared.
func ServiceID(name string) uint64 {
	return xxhash.Sum64String(name)
}
