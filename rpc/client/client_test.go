package client_test

import (
	"fmt"
	"net"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/ValentinKolb/dConcert/lib/repository/lrepo"
	repotesting "github.com/ValentinKolb/dConcert/lib/repository/testing"
	"github.com/ValentinKolb/dConcert/rpc/client"
	"github.com/ValentinKolb/dConcert/rpc/common"
	"github.com/ValentinKolb/dConcert/rpc/serializer"
	"github.com/ValentinKolb/dConcert/rpc/server"
	"github.com/ValentinKolb/dConcert/rpc/transport"
	"github.com/ValentinKolb/dConcert/rpc/transport/http"
	"github.com/ValentinKolb/dConcert/rpc/transport/tcp"
	"github.com/ValentinKolb/dConcert/rpc/transport/unix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// Test setup
// --------------------------------------------------------------------------

var testSerializers = map[string]func() serializer.IRPCSerializer{
	"JSON":   serializer.NewJSONSerializer,
	"GOB":    serializer.NewGOBSerializer,
	"Binary": serializer.NewBinarySerializer,
}

// testTransport describes how to start a server and connect a client for one transport
type testTransport struct {
	// endpoints returns the server endpoint and the matching client endpoint
	endpoints func(t *testing.T) (serverEP, clientEP string)
	server    func() transport.IRPCServerTransport
	client    func() transport.IRPCClientTransport
}

var testTransports = map[string]testTransport{
	"TCP": {
		endpoints: func(t *testing.T) (string, string) {
			addr := freeAddr(t)
			return addr, addr
		},
		server: func() transport.IRPCServerTransport { return tcp.NewTCPServerTransport(64*1024, 16) },
		client: tcp.NewTCPClientTransport,
	},
	"Unix": {
		endpoints: func(t *testing.T) (string, string) {
			path := filepath.Join(t.TempDir(), "concert.sock")
			return path, path
		},
		server: func() transport.IRPCServerTransport { return unix.NewUnixServerTransport(64*1024, 16) },
		client: unix.NewUnixClientTransport,
	},
	"HTTP": {
		endpoints: func(t *testing.T) (string, string) {
			addr := freeAddr(t)
			return addr, "http://" + addr
		},
		server: http.NewHttpServerTransport,
		client: http.NewHttpClientTransport,
	},
}

// freeAddr returns a local tcp address that was free a moment ago
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

// testEnv is a running server plus everything needed to connect clients to it
type testEnv struct {
	server     server.IRPCServer
	clientEP   string
	transport  testTransport
	serializer func() serializer.IRPCSerializer
	services   atomic.Int64
}

// startServer starts a server with the default service and waits until it answers
func startServer(t *testing.T, tt testTransport, ser func() serializer.IRPCSerializer) *testEnv {
	t.Helper()

	serverEP, clientEP := tt.endpoints(t)
	s := server.NewRPCServer(common.ServerConfig{
		Services:      []common.ServerService{{Name: common.DefaultServiceName}},
		TimeoutSecond: 5,
		Transport:     common.ServerTransportConfig{Endpoint: serverEP, TCPConf: common.TCPConf{TCPLingerSec: -1}},
		LogLevel:      "error",
	}, tt.server(), ser())

	done := make(chan error, 1)
	go func() { done <- s.Serve() }()
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	env := &testEnv{server: s, clientEP: clientEP, transport: tt, serializer: ser}

	// wait until the server is ready
	require.Eventually(t, func() bool {
		tr := tt.client()
		_, err := client.NewRPCConcertRepository(common.DefaultServiceName, env.clientConfig(), tr, ser())
		_ = tr.Close()
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "server did not become ready")

	return env
}

func (e *testEnv) clientConfig() common.ClientConfig {
	return common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{e.clientEP},
			RetryCount:             1,
			ConnectionsPerEndpoint: 2,
			TCPConf:                common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1},
		},
	}
}

// connect creates a client for the named service
func (e *testEnv) connect(t *testing.T, name string) repository.IConcertRepository {
	t.Helper()
	tr := e.transport.client()
	repo, err := client.NewRPCConcertRepository(name, e.clientConfig(), tr, e.serializer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return repo
}

// newService binds a fresh repository under a unique name and connects to it
func (e *testEnv) newService(t *testing.T, maxConcerts int) repository.IConcertRepository {
	t.Helper()
	name := fmt.Sprintf("concerts-%d", e.services.Add(1))
	require.NoError(t, e.server.Bind(name, lrepo.NewLocalRepository(maxConcerts)))
	return e.connect(t, name)
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

// TestRPCRepository runs the repository test suite against the rpc client for
// every combination of transport and serializer
func TestRPCRepository(t *testing.T) {
	for transportName, tt := range testTransports {
		for serializerName, ser := range testSerializers {
			t.Run(transportName+"_"+serializerName, func(t *testing.T) {
				env := startServer(t, tt, ser)

				repotesting.RunRepositoryTests(t, "RPCRepository", func(t *testing.T, maxConcerts int) repository.IConcertRepository {
					return env.newService(t, maxConcerts)
				})
			})
		}
	}
}

func TestDefaultServiceIsBound(t *testing.T) {
	env := startServer(t, testTransports["TCP"], serializer.NewBinarySerializer)
	repo := env.connect(t, common.DefaultServiceName)

	created, err := repo.Create(concert.New("Odesza", time.Date(2019, 5, 1, 20, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	id, ok := created.ID()
	require.True(t, ok)

	got, found, err := repo.Get(id)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, created.Equal(got))
}

func TestLookupUnknownService(t *testing.T) {
	for transportName, tt := range testTransports {
		t.Run(transportName, func(t *testing.T) {
			env := startServer(t, tt, serializer.NewBinarySerializer)

			tr := tt.client()
			defer tr.Close()

			_, err := client.NewRPCConcertRepository("no-such-service", env.clientConfig(), tr, serializer.NewBinarySerializer())
			require.Error(t, err)
			assert.ErrorIs(t, err, client.ErrNotBound)
		})
	}
}

func TestCapacityErrorCrossesTheWire(t *testing.T) {
	for serializerName, ser := range testSerializers {
		t.Run(serializerName, func(t *testing.T) {
			env := startServer(t, testTransports["TCP"], ser)
			repo := env.newService(t, 1)

			_, err := repo.Create(concert.New("first", time.Time{}))
			require.NoError(t, err)

			_, err = repo.Create(concert.New("second", time.Time{}))
			require.Error(t, err)
			assert.ErrorIs(t, err, repository.ErrCapacityExceeded)
			assert.NotErrorIs(t, err, client.ErrTransport)
		})
	}
}

func TestServicesAreIsolated(t *testing.T) {
	env := startServer(t, testTransports["Unix"], serializer.NewBinarySerializer)
	a := env.newService(t, 0)
	b := env.newService(t, 0)

	_, err := a.Create(concert.New("only in a", time.Time{}))
	require.NoError(t, err)

	listed, err := b.List()
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.NotNil(t, listed)
}

func TestTransportErrorWhenServerIsDown(t *testing.T) {
	for transportName, tt := range testTransports {
		t.Run(transportName, func(t *testing.T) {
			_, clientEP := tt.endpoints(t)

			tr := tt.client()
			defer tr.Close()

			config := common.ClientConfig{
				TimeoutSecond: 1,
				Transport: common.ClientTransportConfig{
					Endpoints:  []string{clientEP},
					RetryCount: 1,
				},
			}
			_, err := client.NewRPCConcertRepository(common.DefaultServiceName, config, tr, serializer.NewBinarySerializer())
			require.Error(t, err)
			assert.ErrorIs(t, err, client.ErrTransport)
		})
	}
}

func TestRequestsFailAfterServerClose(t *testing.T) {
	tt := testTransports["TCP"]
	serverEP, clientEP := tt.endpoints(t)

	s := server.NewRPCServer(common.ServerConfig{
		Services:  []common.ServerService{{Name: common.DefaultServiceName}},
		Transport: common.ServerTransportConfig{Endpoint: serverEP, TCPConf: common.TCPConf{TCPLingerSec: -1}},
		LogLevel:  "error",
	}, tt.server(), serializer.NewBinarySerializer())

	done := make(chan error, 1)
	go func() { done <- s.Serve() }()

	config := common.ClientConfig{
		TimeoutSecond: 1,
		Transport:     common.ClientTransportConfig{Endpoints: []string{clientEP}, RetryCount: 1},
	}

	var repo repository.IConcertRepository
	require.Eventually(t, func() bool {
		tr := tt.client()
		r, err := client.NewRPCConcertRepository(common.DefaultServiceName, config, tr, serializer.NewBinarySerializer())
		if err != nil {
			_ = tr.Close()
			return false
		}
		t.Cleanup(func() { _ = tr.Close() })
		repo = r
		return true
	}, 5*time.Second, 20*time.Millisecond)

	_, err := repo.Create(concert.New("before close", time.Time{}))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, <-done)

	_, err = repo.List()
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrTransport)
}
