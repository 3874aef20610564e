package client

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/dConcert/rpc/common"
	"github.com/ValentinKolb/dConcert/rpc/serializer"
	"github.com/ValentinKolb/dConcert/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

var (
	// ErrTransport is wrapped by all errors caused by the transport
	// (connection failures, timeouts, corrupt responses)
	ErrTransport = errors.New("transport error")

	// ErrNotBound is returned if no service is bound under the requested name
	ErrNotBound = errors.New("service not bound")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	serviceName string
	serviceID   uint64
	config      common.ClientConfig
	transport   transport.IRPCClientTransport
	serializer  serializer.IRPCSerializer
}

// invoke sends a request to the service of the adapter
func (a *rpcClientAdapter) invoke(req *common.Message) (*common.Message, error) {
	return invokeRPCRequest(a.serviceID, req, a.transport, a.serializer)
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It takes a service ID, a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type
func invokeRPCRequest(serviceID uint64, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s request: %w", req.MsgType, err)
	}

	respBytes, err := transport.Send(serviceID, reqBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	resp := &common.Message{}
	if err := serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("%w: invalid %s response: %w", ErrTransport, req.MsgType, err)
	}

	switch {
	case resp.MsgType == common.MsgTUnknownService:
		return nil, fmt.Errorf("%w: %s", ErrNotBound, resp.Err)
	case resp.MsgType == common.MsgTError || resp.Err != "" || resp.Code != 0:
		return nil, resp.RepositoryError()
	case resp.MsgType != req.MsgType:
		return nil, fmt.Errorf("%w: unexpected message type %s, expected %s", ErrTransport, resp.MsgType, req.MsgType)
	}

	return resp, nil
}
