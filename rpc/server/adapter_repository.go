package server

import (
	"fmt"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/ValentinKolb/dConcert/rpc/common"
)

func NewConcertRepositoryServerAdapter() IRPCServerAdapter {
	return &concertRepositoryServerAdapterImpl{}
}

type concertRepositoryServerAdapterImpl struct{}

// errMissingConcert is returned for create and update requests without a concert
var errMissingConcert = repository.NewError(repository.RetCInvalidOperation, "request carries no concert")

func (adapter *concertRepositoryServerAdapterImpl) Handle(req *common.Message, repo repository.IConcertRepository) *common.Message {
	if repo == nil {
		return common.NewErrorResponse("handler: repository is nil")
	}

	switch req.MsgType {
	case common.MsgTCreate:
		if req.Concert == nil {
			return common.NewCreateResponse(concert.Concert{}, errMissingConcert)
		}
		created, err := repo.Create(*req.Concert)
		return common.NewCreateResponse(created, err)
	case common.MsgTGet:
		c, ok, err := repo.Get(req.ID)
		return common.NewGetResponse(c, ok, err)
	case common.MsgTUpdate:
		if req.Concert == nil {
			return common.NewUpdateResponse(false, errMissingConcert)
		}
		ok, err := repo.Update(*req.Concert)
		return common.NewUpdateResponse(ok, err)
	case common.MsgTDelete:
		ok, err := repo.Delete(req.ID)
		return common.NewDeleteResponse(ok, err)
	case common.MsgTList:
		concerts, err := repo.List()
		return common.NewListResponse(concerts, err)
	case common.MsgTClear:
		err := repo.Clear()
		return common.NewClearResponse(err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC ConcertRepositoryAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
