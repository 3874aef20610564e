package util

import (
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dConcert/rpc/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 40)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
	assert.Empty(t, WrapString(""))
}

func TestParseServices(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []common.ServerService
		wantErr  bool
	}{
		{name: "Single service", input: "concerts", expected: []common.ServerService{{Name: "concerts"}}},
		{name: "Service with capacity", input: "concerts=100", expected: []common.ServerService{{Name: "concerts", MaxConcerts: 100}}},
		{
			name:     "Multiple services",
			input:    " concerts=3, archive ,,festivals=0",
			expected: []common.ServerService{{Name: "concerts", MaxConcerts: 3}, {Name: "archive"}, {Name: "festivals"}},
		},
		{name: "Empty", input: "", wantErr: true},
		{name: "Missing name", input: "=5", wantErr: true},
		{name: "Invalid capacity", input: "concerts=many", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			services, err := ParseServices(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, services)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2019-03-08T20:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2019, 3, 8, 20, 0, 0, 0, time.UTC)))

	got, err = ParseDate("2019-03-08T20:00:00+13:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2019, 3, 8, 7, 0, 0, 0, time.UTC)))

	got, err = ParseDate("2019-03-08 20:15")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2019, 3, 8, 20, 15, 0, 0, time.Local)))

	got, err = ParseDate("2019-03-08")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2019, 3, 8, 0, 0, 0, 0, time.Local)))

	_, err = ParseDate("next friday")
	assert.Error(t, err)
}

func TestGetSerializerAndTransport(t *testing.T) {
	t.Cleanup(viper.Reset)

	for _, name := range []string{"json", "gob", "binary"} {
		viper.Set("serializer", name)
		s, err := GetSerializer()
		require.NoError(t, err)
		assert.NotNil(t, s)
	}
	viper.Set("serializer", "xml")
	_, err := GetSerializer()
	assert.Error(t, err)

	for _, name := range []string{"http", "tcp", "unix"} {
		viper.Set("transport", name)
		c, err := GetTransport()
		require.NoError(t, err)
		assert.NotNil(t, c)

		s, err := GetServerTransport(common.ServerTransportConfig{BufferSize: 1024, WorkersPerConn: 1})
		require.NoError(t, err)
		assert.NotNil(t, s)
	}
	viper.Set("transport", "udp")
	_, err = GetTransport()
	assert.Error(t, err)
}

func TestClientConfigFromViper(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("timeout", 7)
	viper.Set("transport-endpoints", "localhost:1, localhost:2,")
	viper.Set("transport-retries", 2)
	viper.Set("transport-conn-per-endpoint", 4)
	viper.Set("transport-write-buffer", 8)
	viper.Set("transport-read-buffer", 16)
	viper.Set("transport-tcp-nodelay", true)
	viper.Set("transport-tcp-linger", -1)

	config := GetClientConfig()
	assert.Equal(t, 7, config.TimeoutSecond)
	assert.Equal(t, []string{"localhost:1", "localhost:2"}, config.Transport.Endpoints)
	assert.Equal(t, 2, config.Transport.RetryCount)
	assert.Equal(t, 4, config.Transport.ConnectionsPerEndpoint)
	assert.Equal(t, 8*1024, config.Transport.WriteBufferSize)
	assert.Equal(t, 16*1024, config.Transport.ReadBufferSize)
	assert.True(t, config.Transport.TCPNoDelay)
	assert.Equal(t, -1, config.Transport.TCPLingerSec)
}
