package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/ValentinKolb/dConcert/lib/repository/lrepo"
	"github.com/ValentinKolb/dConcert/rpc/common"
	"github.com/ValentinKolb/dConcert/rpc/serializer"
	"github.com/ValentinKolb/dConcert/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// serverService is a repository bound under a name together with the adapter
// that handles requests for it
type serverService struct {
	Name    string
	Repo    repository.IConcertRepository
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) IRPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	return &rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		services:   xsync.NewMapOf[uint64, serverService](),
		metrics:    newServerMetrics(),
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	services   *xsync.MapOf[uint64, serverService]
	metrics    *serverMetrics

	metricsMu     sync.Mutex
	metricsServer *http.Server
}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IRPCServer)
// --------------------------------------------------------------------------

func (s *rpcServer) Bind(name string, repo repository.IConcertRepository) error {
	if name == "" {
		return fmt.Errorf("service name must not be empty")
	}

	svc := serverService{
		Name:    name,
		Repo:    repo,
		Adapter: NewConcertRepositoryServerAdapter(),
	}
	if existing, loaded := s.services.LoadOrStore(common.ServiceID(name), svc); loaded {
		return fmt.Errorf("service %q is already bound (as %q)", name, existing.Name)
	}

	Logger.Infof("Bound service %s (id %d)", name, common.ServiceID(name))
	return nil
}

// Serve starts the RPC server
// This function will also create the repositories of all configured services and start the transport layer
func (s *rpcServer) Serve() error {
	if err := s.init(); err != nil {
		return err
	}
	if err := s.startMetrics(); err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

func (s *rpcServer) Close() error {
	err := s.transport.Close()

	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()
	if s.metricsServer != nil {
		err = errors.Join(err, s.metricsServer.Close())
		s.metricsServer = nil
	}
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// init validates the config, binds the configured services and registers the transport handler
func (s *rpcServer) init() error {
	Logger.Infof("Starting RPC Server")
	Logger.Infof(s.config.String())

	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	for _, svc := range s.config.Services {
		if err := s.Bind(svc.Name, lrepo.NewLocalRepository(svc.MaxConcerts)); err != nil {
			return err
		}
	}

	s.transport.RegisterHandler(s.handle)

	Logger.Infof("Server setup completed successfully")
	return nil
}

// startMetrics serves the metrics on the configured endpoint (if any)
func (s *rpcServer) startMetrics() error {
	if s.config.MetricsEndpoint == "" {
		return nil
	}

	listener, err := net.Listen("tcp", s.config.MetricsEndpoint)
	if err != nil {
		return fmt.Errorf("failed to start metrics endpoint: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", s.metrics.handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.metricsMu.Lock()
	s.metricsServer = srv
	s.metricsMu.Unlock()

	go func() {
		Logger.Infof("Serving metrics on %s/metrics", s.config.MetricsEndpoint)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Metrics endpoint failed: %v", err)
		}
	}()
	return nil
}

// handle is the transport handler, it decodes the request, routes it to the
// addressed service and encodes the response
func (s *rpcServer) handle(serviceID uint64, req []byte) []byte {
	var respMsg *common.Message

	svc, ok := s.services.Load(serviceID)
	if !ok {
		s.metrics.observeUnknownService()
		respMsg = common.NewUnknownServiceResponse(serviceID)
	} else {
		var msg common.Message
		if err := s.serializer.Deserialize(req, &msg); err != nil {
			s.metrics.observeInvalidRequest(svc.Name)
			respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
		} else {
			start := time.Now()
			if msg.MsgType == common.MsgTPing {
				respMsg = common.NewPingResponse(svc.Name)
			} else {
				respMsg = svc.Adapter.Handle(&msg, svc.Repo)
			}
			s.metrics.observe(svc.Name, msg.MsgType, respMsg, start)
		}
	}

	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("Failed to serialize %s response: %v", respMsg.MsgType, err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}
