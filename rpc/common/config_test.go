package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerConfigValidate(t *testing.T) {
	transport := ServerTransportConfig{Endpoint: "localhost:8080"}

	testCases := []struct {
		name    string
		config  ServerConfig
		wantErr bool
	}{
		{name: "Valid", config: ServerConfig{Services: []ServerService{{Name: "concerts"}, {Name: "archive", MaxConcerts: 3}}, Transport: transport}},
		{name: "No services", config: ServerConfig{Transport: transport}, wantErr: true},
		{name: "Empty name", config: ServerConfig{Services: []ServerService{{Name: ""}}, Transport: transport}, wantErr: true},
		{name: "Duplicate name", config: ServerConfig{Services: []ServerService{{Name: "a"}, {Name: "a", MaxConcerts: 1}}, Transport: transport}, wantErr: true},
		{name: "No endpoint", config: ServerConfig{Services: []ServerService{{Name: "concerts"}}}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	server := &ServerConfig{
		Services:        []ServerService{{Name: "concerts"}, {Name: "archive", MaxConcerts: 3}},
		Transport:       ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
		MetricsEndpoint: "0.0.0.0:9090",
		LogLevel:        "info",
	}
	s := server.String()
	assert.Contains(t, s, "0.0.0.0:8080")
	assert.Contains(t, s, "0.0.0.0:9090")
	assert.Contains(t, s, "max unbounded")
	assert.Contains(t, s, "max 3")

	client := &ClientConfig{
		TimeoutSecond: 5,
		Transport:     ClientTransportConfig{Endpoints: []string{"localhost:8080"}},
	}
	assert.Contains(t, client.String(), "localhost:8080")
}
