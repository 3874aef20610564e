package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	ID       int64             `json:"id,omitempty"`       // Used for: Get, Delete requests
	Concert  *concert.Concert  `json:"concert,omitempty"`  // Used for: Create, Update (request), Create, Get (response)
	Concerts []concert.Concert `json:"concerts,omitempty"` // Used for: List (response)

	// Response only fields
	Ok   bool   `json:"ok,omitempty"`   // Used for: Get, Update, Delete responses
	Code uint64 `json:"code,omitempty"` // repository.RetCode of the error, zero if no error
	Err  string `json:"err,omitempty"`  // Empty if no error, otherwise contains the error message

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Used for: Ping (service name)
}

// setErr stores err in the message. Repository errors keep their return code,
// every other error is reported as an internal error.
func (m *Message) setErr(err error) {
	if err == nil {
		return
	}
	var repoErr *repository.Error
	if errors.As(err, &repoErr) {
		m.Code = uint64(repoErr.Code)
		m.Err = repoErr.Msg
		return
	}
	m.Code = uint64(repository.RetCInternalError)
	m.Err = err.Error()
}

// RepositoryError rebuilds the repository error carried by a response.
// It returns nil if the message carries no error.
func (m *Message) RepositoryError() error {
	if m.Err == "" && m.Code == uint64(repository.RetCSuccess) {
		return nil
	}
	code := repository.RetCode(m.Code)
	if code == repository.RetCSuccess {
		code = repository.RetCInternalError
	}
	return repository.NewError(code, m.Err)
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewCreateRequest creates a new Create request
func NewCreateRequest(c concert.Concert) *Message {
	return &Message{
		MsgType: MsgTCreate,
		Concert: &c,
	}
}

// NewCreateResponse creates a new Create response
func NewCreateResponse(created concert.Concert, err error) *Message {
	msg := &Message{
		MsgType: MsgTCreate,
	}
	if err != nil {
		msg.setErr(err)
		return msg
	}
	msg.Concert = &created
	return msg
}

// NewGetRequest creates a new Get request
func NewGetRequest(id int64) *Message {
	return &Message{
		MsgType: MsgTGet,
		ID:      id,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(c concert.Concert, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTGet,
		Ok:      ok,
	}
	if ok {
		msg.Concert = &c
	}
	msg.setErr(err)
	return msg
}

// NewUpdateRequest creates a new Update request
func NewUpdateRequest(c concert.Concert) *Message {
	return &Message{
		MsgType: MsgTUpdate,
		Concert: &c,
	}
}

// NewUpdateResponse creates a new Update response
func NewUpdateResponse(ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTUpdate,
		Ok:      ok,
	}
	msg.setErr(err)
	return msg
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(id int64) *Message {
	return &Message{
		MsgType: MsgTDelete,
		ID:      id,
	}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTDelete,
		Ok:      ok,
	}
	msg.setErr(err)
	return msg
}

// NewListRequest creates a new List request
func NewListRequest() *Message {
	return &Message{
		MsgType: MsgTList,
	}
}

// NewListResponse creates a new List response
func NewListResponse(concerts []concert.Concert, err error) *Message {
	msg := &Message{
		MsgType:  MsgTList,
		Concerts: concerts,
	}
	msg.setErr(err)
	return msg
}

// NewClearRequest creates a new Clear request
func NewClearRequest() *Message {
	return &Message{
		MsgType: MsgTClear,
	}
}

// NewClearResponse creates a new Clear response
func NewClearResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTClear,
	}
	msg.setErr(err)
	return msg
}

// NewPingRequest creates a new Ping request used to look up a service by name
func NewPingRequest(serviceName string) *Message {
	return &Message{
		MsgType: MsgTPing,
		Meta:    []byte(serviceName),
	}
}

// NewPingResponse creates a new Ping response carrying the name of the answering service
func NewPingResponse(serviceName string) *Message {
	return &Message{
		MsgType: MsgTPing,
		Ok:      true,
		Meta:    []byte(serviceName),
	}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Code:    uint64(repository.RetCInternalError),
		Err:     err,
	}
}

// NewUnknownServiceResponse creates the response for a request that was routed
// to a service id that is not bound on the server
func NewUnknownServiceResponse(serviceID uint64) *Message {
	return &Message{
		MsgType: MsgTUnknownService,
		Err:     fmt.Sprintf("no service bound for id %d", serviceID),
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTSuccess:
		return "success"
	case MsgTError:
		return "error"
	case MsgTUnknownService:
		return "unknownService"
	case MsgTPing:
		return "ping"
	case MsgTCreate:
		return "create"
	case MsgTGet:
		return "get"
	case MsgTUpdate:
		return "update"
	case MsgTDelete:
		return "delete"
	case MsgTList:
		return "list"
	case MsgTClear:
		return "clear"
	default:
		return "unknown"
	}
}

// parseMessageType is the inverse of MessageType.String
func parseMessageType(s string) (MessageType, error) {
	for t := MsgTUnknown; t <= MsgTClear; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return MsgTUnknown, fmt.Errorf("unknown message type: %s", s)
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := parseMessageType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown        MessageType = iota
	MsgTSuccess                    // Indicates a successful operation
	MsgTError                      // Indicates an error occurred
	MsgTUnknownService             // The request was routed to a service that is not bound
	MsgTPing                       // Look up a service

	// IConcertRepository operations

	MsgTCreate // Create a concert
	MsgTGet    // Get a concert by id
	MsgTUpdate // Replace a stored concert
	MsgTDelete // Delete a concert by id
	MsgTList   // List all concerts
	MsgTClear  // Remove all concerts
)
