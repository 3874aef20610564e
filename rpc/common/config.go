package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Transport configuration shared by server and client
// --------------------------------------------------------------------------

// SocketConf holds the buffer sizes of the underlying socket
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds the tcp specific socket options (ignored by the unix transport)
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	// TCPLingerSec < 0 keeps the operating system default
	TCPLingerSec int
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerService is a named repository bound on the server
type ServerService struct {
	// Name is the name clients use to look up the service
	Name string
	// MaxConcerts is the capacity of the repository, <= 0 means unbounded
	MaxConcerts int
}

// ID returns the routing id of the service
func (s ServerService) ID() uint64 {
	return ServiceID(s.Name)
}

// ServerTransportConfig configures the transport the server listens on
type ServerTransportConfig struct {
	// Endpoint is the address the server listens on
	Endpoint string
	// WorkersPerConn is the number of goroutines handling requests of a single connection
	WorkersPerConn int
	// BufferSize is the size of the request queue of a single connection
	BufferSize int
	SocketConf
	TCPConf
}

// ServerConfig holds all configuration parameters for the rpc server.
type ServerConfig struct {
	// Services are the repositories bound by the server
	Services []ServerService

	// TimeoutSecond limits the time a request may take
	TimeoutSecond int64

	// Transport settings
	Transport ServerTransportConfig

	// MetricsEndpoint is the address of the prometheus endpoint, empty disables it
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// Validate checks that the configuration can be served
func (c *ServerConfig) Validate() error {
	if len(c.Services) == 0 {
		return fmt.Errorf("no services configured")
	}
	names := make(map[string]struct{}, len(c.Services))
	for _, s := range c.Services {
		if s.Name == "" {
			return fmt.Errorf("service name must not be empty")
		}
		if _, ok := names[s.Name]; ok {
			return fmt.Errorf("service %q is configured twice", s.Name)
		}
		names[s.Name] = struct{}{}
	}
	if c.Transport.Endpoint == "" {
		return fmt.Errorf("no endpoint configured")
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Workers Per Conn", strconv.Itoa(c.Transport.WorkersPerConn))
	addField("Buffer Size", strconv.Itoa(c.Transport.BufferSize))
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Services
	addSection("Services")
	for _, s := range c.Services {
		capacity := "unbounded"
		if s.MaxConcerts > 0 {
			capacity = strconv.Itoa(s.MaxConcerts)
		}
		addField(s.Name, fmt.Sprintf("max %s (id %d)", capacity, s.ID()))
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientTransportConfig configures the connections of a client
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	SocketConf
	TCPConf
}

type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
