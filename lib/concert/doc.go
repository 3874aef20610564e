// Package concert defines the Concert value type that is stored by the
// repository and passed between clients and servers.
//
// A Concert consists of an optional id, a title and a date. The id is unset
// when a client constructs a concert and is assigned by the repository when
// the concert is created.
//
// Semantics:
//
//   - Equality: two concerts are equal iff id, title and date are equal
//     (dates are compared as instants, see time.Time.Equal).
//
//   - Hash: derived from a type tag, the id and the title. Two equal concerts
//     always have the same hash, the converse does not hold.
//
//   - Copies: Concert has no reference fields, every copy is independent.
//
// Encoding:
//
//	Concert implements encoding.BinaryMarshaler (which is also picked up by
//	encoding/gob) and json.Marshaler, so it can travel inside rpc messages
//	with every serializer of the rpc/serializer package.
package concert
