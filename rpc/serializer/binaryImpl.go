package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasID       byte = 1 << 0
	hasConcert  byte = 1 << 1
	hasConcerts byte = 1 << 2
	hasOk       byte = 1 << 3
	hasCode     byte = 1 << 4
	hasErr      byte = 1 << 5
	hasMeta     byte = 1 << 6
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Encode the concerts first, their size is needed to allocate the result
	var encConcert []byte
	if msg.Concert != nil {
		enc, err := msg.Concert.MarshalBinary()
		if err != nil {
			return nil, err
		}
		encConcert = enc
	}

	var encConcerts [][]byte
	if msg.Concerts != nil {
		encConcerts = make([][]byte, len(msg.Concerts))
		for i, c := range msg.Concerts {
			enc, err := c.MarshalBinary()
			if err != nil {
				return nil, err
			}
			encConcerts[i] = enc
		}
	}

	result := make([]byte, 2, b.sizeBytes(msg, encConcert, encConcerts))

	// Write message type
	result[0] = byte(msg.MsgType)

	var flags byte = 0

	// Handle ID
	if msg.ID != 0 {
		flags |= hasID
		result = binary.BigEndian.AppendUint64(result, uint64(msg.ID))
	}

	// Handle Concert
	if msg.Concert != nil {
		flags |= hasConcert
		result = appendBlob(result, encConcert)
	}

	// Handle Concerts, written as count followed by the length prefixed concerts
	if msg.Concerts != nil {
		flags |= hasConcerts
		result = binary.BigEndian.AppendUint32(result, uint32(len(encConcerts)))
		for _, enc := range encConcerts {
			result = appendBlob(result, enc)
		}
	}

	// Handle Ok
	if msg.Ok {
		flags |= hasOk
		result = append(result, 1)
	}

	// Handle Code
	if msg.Code != 0 {
		flags |= hasCode
		result = binary.BigEndian.AppendUint64(result, msg.Code)
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		result = appendBlob(result, []byte(msg.Err))
	}

	// Handle Meta
	if msg.Meta != nil {
		flags |= hasMeta
		result = appendBlob(result, msg.Meta)
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	r := reader{data: data, pos: 2}

	// Read ID if present
	msg.ID = 0
	if flags&hasID != 0 {
		v, err := r.uint64("id")
		if err != nil {
			return err
		}
		msg.ID = int64(v)
	}

	// Read Concert if present
	msg.Concert = nil
	if flags&hasConcert != 0 {
		blob, err := r.blob("concert")
		if err != nil {
			return err
		}
		c := new(concert.Concert)
		if err := c.UnmarshalBinary(blob); err != nil {
			return err
		}
		msg.Concert = c
	}

	// Read Concerts if present, an empty list stays non nil
	msg.Concerts = nil
	if flags&hasConcerts != 0 {
		count, err := r.uint32("concert count")
		if err != nil {
			return err
		}
		// every concert needs at least its length prefix
		if int(count) > (len(data)-r.pos)/4 {
			return fmt.Errorf("data too short for %d concerts", count)
		}
		msg.Concerts = make([]concert.Concert, count)
		for i := range msg.Concerts {
			blob, err := r.blob("concert")
			if err != nil {
				return err
			}
			if err := msg.Concerts[i].UnmarshalBinary(blob); err != nil {
				return err
			}
		}
	}

	// Read Ok if present
	msg.Ok = false
	if flags&hasOk != 0 {
		if r.pos+1 > len(data) {
			return fmt.Errorf("data too short for Ok flag")
		}
		msg.Ok = data[r.pos] != 0
		r.pos += 1
	}

	// Read Code if present
	msg.Code = 0
	if flags&hasCode != 0 {
		v, err := r.uint64("code")
		if err != nil {
			return err
		}
		msg.Code = v
	}

	// Read Err if present
	msg.Err = ""
	if flags&hasErr != 0 {
		blob, err := r.blob("error")
		if err != nil {
			return err
		}
		msg.Err = string(blob)
	}

	// Read Meta if present, create an empty slice (not nil) if length is 0
	msg.Meta = nil
	if flags&hasMeta != 0 {
		blob, err := r.blob("meta")
		if err != nil {
			return err
		}
		msg.Meta = make([]byte, len(blob))
		copy(msg.Meta, blob)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message, encConcert []byte, encConcerts [][]byte) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.ID != 0 {
		size += 8 // int64
	}
	if msg.Concert != nil {
		size += 4 + len(encConcert) // 4 bytes for length + concert
	}
	if msg.Concerts != nil {
		size += 4 // count
		for _, enc := range encConcerts {
			size += 4 + len(enc)
		}
	}
	if msg.Ok {
		size += 1 // 1 byte for boolean
	}
	if msg.Code != 0 {
		size += 8 // uint64
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) // 4 bytes for length + error string
	}
	if msg.Meta != nil {
		size += 4 + len(msg.Meta) // 4 bytes for length + meta bytes
	}

	return size
}

// appendBlob appends the 4 byte length of data followed by data
func appendBlob(result []byte, data []byte) []byte {
	result = binary.BigEndian.AppendUint32(result, uint32(len(data)))
	return append(result, data...)
}

// reader reads the fields of a serialized message while checking the bounds
type reader struct {
	data []byte
	pos  int
}

func (r *reader) uint64(field string) (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("data too short for %s", field)
	}
	v := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) uint32(field string) (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("data too short for %s length", field)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// blob reads a length prefixed byte slice, the result aliases the input
func (r *reader) blob(field string) ([]byte, error) {
	n, err := r.uint32(field)
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.data) {
		return nil, fmt.Errorf("data too short for %s data", field)
	}
	v := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return v, nil
}
