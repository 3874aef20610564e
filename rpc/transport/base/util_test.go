package base

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		buf  []byte
	}{
		{name: "Empty payload", data: []byte{}},
		{name: "Small payload without buffer", data: []byte("hello")},
		{name: "Payload fits buffer", data: []byte("hello"), buf: make([]byte, 64)},
		{name: "Payload larger than buffer", data: make([]byte, 4096), buf: make([]byte, 32)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, server := net.Pipe()
			defer client.Close()
			defer server.Close()

			errCh := make(chan error, 1)
			go func() {
				errCh <- writeFrame(client, 42, 7, tc.data)
			}()

			serviceID, requestID, data, err := readFrame(server, tc.buf)
			require.NoError(t, err)
			require.NoError(t, <-errCh)

			assert.Equal(t, uint64(42), serviceID)
			assert.Equal(t, uint64(7), requestID)
			assert.Equal(t, tc.data, data)
		})
	}
}

func TestWriteEmptyFrameDoesNotBlock(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- writeFrame(client, 1, 2, []byte{})
	}()

	_, requestID, data, err := readFrame(server, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), requestID)
	assert.Empty(t, data)

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("writeFrame still blocked after the frame was read")
	}
}

func TestReadFrameRejectsOversizedPayload(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	header := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint64(header[:8], 1)
	binary.BigEndian.PutUint64(header[8:16], 2)
	binary.BigEndian.PutUint32(header[16:20], maxFrameSize+1)

	go func() {
		_, _ = client.Write(header)
	}()

	_, requestID, _, err := readFrame(server, nil)
	require.Error(t, err)
	assert.Equal(t, uint64(2), requestID)
}

func TestReadFrameTruncatedHeader(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	go func() {
		_, _ = client.Write([]byte{1, 2, 3})
		_ = client.Close()
	}()

	_, _, _, err := readFrame(server, nil)
	assert.Error(t, err)
}
