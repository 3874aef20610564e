package server

import (
	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/ValentinKolb/dConcert/rpc/common"
)

// IRPCServer is the interface of the RPC server
type IRPCServer interface {
	// Bind publishes a repository under the given name. Requests addressed to
	// common.ServiceID(name) are handled by this repository.
	// It returns an error if the name is already bound.
	Bind(name string, repo repository.IConcertRepository) error
	// Serve binds all services of the configuration and starts the transport layer.
	// It blocks until the server is closed.
	Serve() error
	// Close stops the transport layer and the metrics endpoint
	Close() error
}

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It takes a Message and a repository as parameters.
	// It returns a Message as a response
	// If an error occurs, it should be set in the response
	Handle(req *common.Message, repo repository.IConcertRepository) (resp *common.Message)
}
