package concert

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"
)

const (
	flagHasID byte = 1 << 0

	// 1 byte flags + 8 bytes id + 4 bytes title length + 1 byte date length
	headerSize = 1 + 8 + 4 + 1
)

// --------------------------------------------------------------------------
// Binary Encoding (also used by encoding/gob)
// --------------------------------------------------------------------------

// MarshalBinary encodes the concert with the format:
// 1 byte flags (bit 0: id present),
// 8 bytes id (big endian, zero if absent),
// 4 bytes title length (big endian),
// N bytes title,
// 1 byte date length,
// N bytes date (time.Time binary encoding)
func (c Concert) MarshalBinary() ([]byte, error) {
	date, err := c.date.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode date: %w", err)
	}

	result := make([]byte, headerSize+len(c.title)+len(date))

	var flags byte
	if c.hasID {
		flags |= flagHasID
	}
	result[0] = flags
	binary.BigEndian.PutUint64(result[1:9], uint64(c.id))
	binary.BigEndian.PutUint32(result[9:13], uint32(len(c.title)))

	pos := 13
	copy(result[pos:pos+len(c.title)], c.title)
	pos += len(c.title)

	result[pos] = byte(len(date))
	pos++
	copy(result[pos:], date)

	return result, nil
}

// UnmarshalBinary decodes a concert written by MarshalBinary
func (c *Concert) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("data too short for concert")
	}

	flags := data[0]
	id := int64(binary.BigEndian.Uint64(data[1:9]))
	titleLen := int(binary.BigEndian.Uint32(data[9:13]))

	pos := 13
	if pos+titleLen+1 > len(data) {
		return fmt.Errorf("data too short for title of length %d", titleLen)
	}
	title := string(data[pos : pos+titleLen])
	pos += titleLen

	dateLen := int(data[pos])
	pos++
	if pos+dateLen > len(data) {
		return fmt.Errorf("data too short for date of length %d", dateLen)
	}

	var date time.Time
	if err := date.UnmarshalBinary(data[pos : pos+dateLen]); err != nil {
		return fmt.Errorf("failed to decode date: %w", err)
	}

	c.hasID = flags&flagHasID != 0
	c.id = 0
	if c.hasID {
		c.id = id
	}
	c.title = title
	c.date = date
	return nil
}

// --------------------------------------------------------------------------
// JSON Encoding
// --------------------------------------------------------------------------

// jsonConcert is the json representation of a Concert
type jsonConcert struct {
	ID    *int64    `json:"id,omitempty"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// MarshalJSON implements the json.Marshaler interface.
// An unset id is omitted from the output.
func (c Concert) MarshalJSON() ([]byte, error) {
	jc := jsonConcert{
		Title: c.title,
		Date:  c.date,
	}
	if c.hasID {
		id := c.id
		jc.ID = &id
	}
	return json.Marshal(jc)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (c *Concert) UnmarshalJSON(data []byte) error {
	var jc jsonConcert
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	*c = Concert{
		title: jc.Title,
		date:  jc.Date,
	}
	if jc.ID != nil {
		c.id = *jc.ID
		c.hasID = true
	}
	return nil
}
