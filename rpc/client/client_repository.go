package client

import (
	"fmt"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/ValentinKolb/dConcert/rpc/common"
	"github.com/ValentinKolb/dConcert/rpc/serializer"
	"github.com/ValentinKolb/dConcert/rpc/transport"
)

// NewRPCConcertRepository creates a new client for the concert repository bound
// under serviceName. The transport is connected and the service is looked up
// before the client is returned, an unknown name yields ErrNotBound.
func NewRPCConcertRepository(
	serviceName string,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (repository.IConcertRepository, error) {

	if err := transport.Connect(config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if err := Lookup(serviceName, transport, serializer); err != nil {
		_ = transport.Close()
		return nil, err
	}

	return &rpcConcertRepository{
		rpcClientAdapter{
			serviceName: serviceName,
			serviceID:   common.ServiceID(serviceName),
			config:      config,
			transport:   transport,
			serializer:  serializer,
		},
	}, nil
}

// Lookup checks that a service named serviceName is bound on the server the
// (already connected) transport talks to
func Lookup(serviceName string, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) error {
	resp, err := invokeRPCRequest(common.ServiceID(serviceName), common.NewPingRequest(serviceName), transport, serializer)
	if err != nil {
		return err
	}

	// two names with the same id must not be confused
	if !resp.Ok || string(resp.Meta) != serviceName {
		return fmt.Errorf("%w: %s (found %q)", ErrNotBound, serviceName, resp.Meta)
	}

	Logger.Debugf("Found service %s", serviceName)
	return nil
}

type rpcConcertRepository struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see repository.IConcertRepository)
// --------------------------------------------------------------------------

func (r *rpcConcertRepository) Create(c concert.Concert) (concert.Concert, error) {
	resp, err := r.invoke(common.NewCreateRequest(c))
	if err != nil {
		return concert.Concert{}, err
	}
	if resp.Concert == nil {
		return concert.Concert{}, fmt.Errorf("%w: create response without concert", ErrTransport)
	}
	return *resp.Concert, nil
}

func (r *rpcConcertRepository) Get(id int64) (concert.Concert, bool, error) {
	resp, err := r.invoke(common.NewGetRequest(id))
	if err != nil {
		return concert.Concert{}, false, err
	}
	if !resp.Ok || resp.Concert == nil {
		return concert.Concert{}, false, nil
	}
	return *resp.Concert, true, nil
}

func (r *rpcConcertRepository) Update(c concert.Concert) (bool, error) {
	resp, err := r.invoke(common.NewUpdateRequest(c))
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (r *rpcConcertRepository) Delete(id int64) (bool, error) {
	resp, err := r.invoke(common.NewDeleteRequest(id))
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (r *rpcConcertRepository) List() ([]concert.Concert, error) {
	resp, err := r.invoke(common.NewListRequest())
	if err != nil {
		return nil, err
	}
	// json and gob drop empty lists
	if resp.Concerts == nil {
		return []concert.Concert{}, nil
	}
	return resp.Concerts, nil
}

func (r *rpcConcertRepository) Clear() error {
	_, err := r.invoke(common.NewClearRequest())
	return err
}
