package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/ValentinKolb/dConcert/lib/repository/lrepo"
	"github.com/ValentinKolb/dConcert/rpc/common"
	"github.com/ValentinKolb/dConcert/rpc/serializer"
	"github.com/ValentinKolb/dConcert/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopTransport is a server transport that never receives requests, the tests
// call the handler directly
type nopTransport struct {
	handler transport.ServerHandleFunc
}

func (n *nopTransport) RegisterHandler(handler transport.ServerHandleFunc) { n.handler = handler }
func (n *nopTransport) Listen(common.ServerConfig) error                   { return nil }
func (n *nopTransport) Close() error                                       { return nil }

func newTestServer(t *testing.T, services ...common.ServerService) (*rpcServer, serializer.IRPCSerializer) {
	t.Helper()
	ser := serializer.NewBinarySerializer()
	s := NewRPCServer(common.ServerConfig{
		Services:  services,
		Transport: common.ServerTransportConfig{Endpoint: "unused"},
	}, &nopTransport{}, ser).(*rpcServer)
	require.NoError(t, s.Serve())
	return s, ser
}

// call sends a request through the transport handler of the server
func call(t *testing.T, s *rpcServer, ser serializer.IRPCSerializer, service string, req *common.Message) common.Message {
	t.Helper()
	data, err := ser.Serialize(*req)
	require.NoError(t, err)

	var resp common.Message
	require.NoError(t, ser.Deserialize(s.handle(common.ServiceID(service), data), &resp))
	return resp
}

func TestServeBindsConfiguredServices(t *testing.T) {
	s, ser := newTestServer(t,
		common.ServerService{Name: "concerts", MaxConcerts: 1},
		common.ServerService{Name: "archive"},
	)

	for _, name := range []string{"concerts", "archive"} {
		resp := call(t, s, ser, name, common.NewPingRequest(name))
		assert.Equal(t, common.MsgTPing, resp.MsgType)
		assert.True(t, resp.Ok)
		assert.Equal(t, name, string(resp.Meta))
	}

	// capacity is taken from the config
	resp := call(t, s, ser, "concerts", common.NewCreateRequest(concert.New("a", time.Time{})))
	require.Empty(t, resp.Err)
	resp = call(t, s, ser, "concerts", common.NewCreateRequest(concert.New("b", time.Time{})))
	assert.ErrorIs(t, resp.RepositoryError(), repository.ErrCapacityExceeded)
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	s := NewRPCServer(common.ServerConfig{
		Services:  []common.ServerService{{Name: "a"}, {Name: "a"}},
		Transport: common.ServerTransportConfig{Endpoint: "unused"},
	}, &nopTransport{}, serializer.NewBinarySerializer())
	assert.Error(t, s.Serve())

	s = NewRPCServer(common.ServerConfig{
		Transport: common.ServerTransportConfig{Endpoint: "unused"},
	}, &nopTransport{}, serializer.NewBinarySerializer())
	assert.Error(t, s.Serve())
}

func TestUnknownService(t *testing.T) {
	s, ser := newTestServer(t, common.ServerService{Name: "concerts"})

	resp := call(t, s, ser, "missing", common.NewPingRequest("missing"))
	assert.Equal(t, common.MsgTUnknownService, resp.MsgType)
	assert.NotEmpty(t, resp.Err)
}

func TestBindTwice(t *testing.T) {
	s, _ := newTestServer(t, common.ServerService{Name: "concerts"})

	assert.Error(t, s.Bind("concerts", lrepo.NewLocalRepository(0)))
	assert.Error(t, s.Bind("", lrepo.NewLocalRepository(0)))
	assert.NoError(t, s.Bind("other", lrepo.NewLocalRepository(0)))
}

func TestInvalidRequest(t *testing.T) {
	s, ser := newTestServer(t, common.ServerService{Name: "concerts"})

	var resp common.Message
	require.NoError(t, ser.Deserialize(s.handle(common.ServiceID("concerts"), []byte{1}), &resp))
	assert.Equal(t, common.MsgTError, resp.MsgType)
	assert.Contains(t, resp.Err, "deserialize")
}

func TestAdapter(t *testing.T) {
	adapter := NewConcertRepositoryServerAdapter()
	repo := lrepo.NewLocalRepository(0)
	date := time.Date(2019, 3, 8, 20, 0, 0, 0, time.UTC)

	resp := adapter.Handle(common.NewCreateRequest(concert.NewWithID(5, "Louis the Child", date)), repo)
	require.Empty(t, resp.Err)
	require.NotNil(t, resp.Concert)
	id, ok := resp.Concert.ID()
	require.True(t, ok)
	assert.Equal(t, int64(0), id)

	resp = adapter.Handle(common.NewGetRequest(0), repo)
	assert.True(t, resp.Ok)
	require.NotNil(t, resp.Concert)
	assert.Equal(t, "Louis the Child", resp.Concert.Title())

	resp = adapter.Handle(common.NewGetRequest(1), repo)
	assert.False(t, resp.Ok)
	assert.Nil(t, resp.Concert)

	resp = adapter.Handle(common.NewUpdateRequest(concert.NewWithID(0, "Louis the Child", date.Add(time.Hour))), repo)
	assert.True(t, resp.Ok)

	resp = adapter.Handle(common.NewListRequest(), repo)
	require.Len(t, resp.Concerts, 1)
	assert.True(t, resp.Concerts[0].Date().Equal(date.Add(time.Hour)))

	resp = adapter.Handle(common.NewDeleteRequest(0), repo)
	assert.True(t, resp.Ok)

	resp = adapter.Handle(common.NewClearRequest(), repo)
	assert.Empty(t, resp.Err)

	// requests without concert are rejected
	resp = adapter.Handle(&common.Message{MsgType: common.MsgTCreate}, repo)
	var repoErr *repository.Error
	require.ErrorAs(t, resp.RepositoryError(), &repoErr)
	assert.Equal(t, repository.RetCInvalidOperation, repoErr.Code)

	resp = adapter.Handle(&common.Message{MsgType: common.MsgTUpdate}, repo)
	assert.False(t, resp.Ok)
	assert.Error(t, resp.RepositoryError())

	resp = adapter.Handle(&common.Message{MsgType: common.MsgTSuccess}, repo)
	assert.Equal(t, common.MsgTError, resp.MsgType)
}

func TestMetrics(t *testing.T) {
	s, ser := newTestServer(t, common.ServerService{Name: "concerts", MaxConcerts: 1})

	call(t, s, ser, "concerts", common.NewCreateRequest(concert.New("a", time.Time{})))
	call(t, s, ser, "concerts", common.NewCreateRequest(concert.New("b", time.Time{})))
	call(t, s, ser, "concerts", common.NewListRequest())
	call(t, s, ser, "missing", common.NewListRequest())

	rec := httptest.NewRecorder()
	s.metrics.handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `concert_rpc_requests_total{service="concerts",op="create"} 2`)
	assert.Contains(t, body, `concert_rpc_requests_total{service="concerts",op="list"} 1`)
	assert.Contains(t, body, `concert_rpc_errors_total{service="concerts",op="create",code="CapacityExceeded"} 1`)
	assert.Contains(t, body, `concert_rpc_unknown_service_total 1`)
	assert.True(t, strings.Contains(body, "concert_rpc_request_duration_seconds_bucket"))
}
