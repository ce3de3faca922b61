package badger

import (
	"encoding/binary"

	"github.com/phelgetar/docgrep/core"
)

// Key prefixes for different data types
const (
	documentPrefix  = "docrec"
	buildInfoKeyStr = "docmeta"
)

// makeDocumentKey generates a key for a document record. The sequence
// number comes first so iteration returns documents in insertion order,
// preserving stable corpus order across compile and load.
func makeDocumentKey(seq uint64, id core.ID) []byte {
	prefix := documentPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// BigEndian so lexicographic key order matches numeric order.
	binary.BigEndian.PutUint64(buf[offset:], seq)
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func documentKeyPrefix() []byte {
	return []byte(documentPrefix + ":")
}

func buildInfoKey() []byte {
	return []byte(buildInfoKeyStr)
}
