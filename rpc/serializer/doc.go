// Package serializer converts rpc messages of the concert repository to bytes
// and back. It defines a common interface and three implementations.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: Custom binary format. A flags byte marks which optional
//     fields are present, so only those are written. Concerts are embedded length
//     prefixed in their own binary encoding (see concert.Concert.MarshalBinary).
//     This is the smallest and fastest format and the default of the cli.
//
//   - gobSerializerImpl: Go's gob encoding. Concerts are encoded through their
//     BinaryMarshaler implementation.
//
//   - jsonSerializerImpl: JSON encoding, useful for debugging. Concerts use their
//     json representation with an optional id and an RFC 3339 date.
//
// Differences:
//
//	Only the binary format keeps the difference between a nil and an empty
//	slice. Users of the json and gob serializers must treat a missing concert
//	list as an empty one.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	serializer := serializer.NewBinarySerializer()
//	data, err := serializer.Serialize(message)
//	// ... send data ...
//	var receivedMsg common.Message
//	err = serializer.Deserialize(receivedData, &receivedMsg)
package serializer
