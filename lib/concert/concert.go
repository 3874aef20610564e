package concert

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// typeTag is mixed into every hash so that a concert never collides with a
// plain (id, title) tuple hashed elsewhere
const typeTag = "dconcert.Concert"

// Concert is the state of a single concert. Concerts are plain values: copying
// a Concert yields an independent instance, so handing one out never exposes
// the holder's copy.
type Concert struct {
	id    int64
	hasID bool
	title string
	date  time.Time
}

// New creates a concert without an id. The id is assigned by the repository
// on creation.
func New(title string, date time.Time) Concert {
	return Concert{
		title: title,
		date:  date,
	}
}

// NewWithID creates a concert with an explicit id (used for updates and tests)
func NewWithID(id int64, title string, date time.Time) Concert {
	return Concert{
		id:    id,
		hasID: true,
		title: title,
		date:  date,
	}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// ID returns the id of the concert. The boolean is false if no id was ever assigned.
func (c Concert) ID() (int64, bool) {
	return c.id, c.hasID
}

func (c Concert) Title() string {
	return c.title
}

func (c Concert) Date() time.Time {
	return c.date
}

// SetDate changes the date of the concert in place
func (c *Concert) SetDate(date time.Time) {
	c.date = date
}

// WithID returns a copy of the concert carrying the given id
func (c Concert) WithID(id int64) Concert {
	c.id = id
	c.hasID = true
	return c
}

// --------------------------------------------------------------------------
// Equality and Hashing
// --------------------------------------------------------------------------

// Equal reports whether both concerts have the same id, title and date.
// Dates are compared with time.Time.Equal, so the same instant in different
// locations is considered equal.
func (c Concert) Equal(other Concert) bool {
	if c.hasID != other.hasID {
		return false
	}
	if c.hasID && c.id != other.id {
		return false
	}
	return c.title == other.title && c.date.Equal(other.date)
}

// Hash returns a hash over the type tag, the id and the title.
// The date is not part of the hash, equal concerts always hash identically.
func (c Concert) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(typeTag)

	var idBuf [9]byte
	if c.hasID {
		idBuf[0] = 1
		binary.BigEndian.PutUint64(idBuf[1:], uint64(c.id))
	}
	_, _ = d.Write(idBuf[:])

	_, _ = d.WriteString(c.title)
	return d.Sum64()
}

// String renders the concert as "Concert[id=..,title=..,date=..]"
func (c Concert) String() string {
	var sb strings.Builder
	sb.WriteString("Concert[id=")
	if c.hasID {
		sb.WriteString(fmt.Sprintf("%d", c.id))
	} else {
		sb.WriteString("<unset>")
	}
	sb.WriteString(",title=")
	sb.WriteString(c.title)
	sb.WriteString(",date=")
	sb.WriteString(c.date.Format(time.RFC3339))
	sb.WriteString("]")
	return sb.String()
}
