package common

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryError(t *testing.T) {
	testCases := []struct {
		name     string
		msg      *Message
		wantErr  bool
		wantCode repository.RetCode
	}{
		{name: "No error", msg: NewClearResponse(nil)},
		{name: "Capacity exceeded", msg: NewCreateResponse(concert.Concert{}, repository.ErrCapacityExceeded), wantErr: true, wantCode: repository.RetCCapacityExceeded},
		{name: "Wrapped repository error", msg: NewUpdateResponse(false, errors.Join(repository.NewError(repository.RetCInvalidOperation, "bad"))), wantErr: true, wantCode: repository.RetCInvalidOperation},
		{name: "Plain error", msg: NewListResponse(nil, errors.New("boom")), wantErr: true, wantCode: repository.RetCInternalError},
		{name: "Error response", msg: NewErrorResponse("broken"), wantErr: true, wantCode: repository.RetCInternalError},
		{name: "Message without code", msg: &Message{MsgType: MsgTError, Err: "no code"}, wantErr: true, wantCode: repository.RetCInternalError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.RepositoryError()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			var repoErr *repository.Error
			require.ErrorAs(t, err, &repoErr)
			assert.Equal(t, tc.wantCode, repoErr.Code)
		})
	}

	err := NewCreateResponse(concert.Concert{}, repository.ErrCapacityExceeded).RepositoryError()
	assert.ErrorIs(t, err, repository.ErrCapacityExceeded)
}

func TestResponseCarriesConcertOnlyWhenFound(t *testing.T) {
	c := concert.NewWithID(1, "Odesza", time.Date(2019, 5, 1, 20, 0, 0, 0, time.UTC))

	resp := NewCreateResponse(c, nil)
	require.NotNil(t, resp.Concert)
	assert.True(t, resp.Concert.Equal(c))

	resp = NewGetResponse(c, false, nil)
	assert.False(t, resp.Ok)
	assert.Nil(t, resp.Concert)

	resp = NewGetResponse(c, true, nil)
	assert.True(t, resp.Ok)
	assert.NotNil(t, resp.Concert)
}

func TestMessageTypeJSON(t *testing.T) {
	for mt := MsgTUnknown; mt <= MsgTClear; mt++ {
		data, err := json.Marshal(mt)
		require.NoError(t, err)
		assert.JSONEq(t, `"`+mt.String()+`"`, string(data))

		var parsed MessageType
		require.NoError(t, json.Unmarshal(data, &parsed))
		assert.Equal(t, mt, parsed)
	}

	var parsed MessageType
	assert.Error(t, json.Unmarshal([]byte(`"teleport"`), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`3`), &parsed))
}

func TestServiceID(t *testing.T) {
	assert.Equal(t, ServiceID("concerts"), ServiceID(DefaultServiceName))
	assert.NotEqual(t, ServiceID("concerts"), ServiceID("archive"))
	assert.Equal(t, ServiceID("archive"), ServerService{Name: "archive"}.ID())
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, logger.WARNING, lvl)

	lvl, err = ParseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, logger.DEBUG, lvl)

	_, err = ParseLogLevel("verbose")
	assert.Error(t, err)
	assert.Error(t, InitLoggers("verbose"))
}
