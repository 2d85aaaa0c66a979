package badger

import (
	"encoding/binary"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
)

// Key prefixes for different data types
const (
	rowPrefix = "docrow:"
	rowIDSeq  = "docrowseq"
)

// makeRowKey generates a key for a row by ID.
// Format: prefix + 8 byte BigEndian ID, so iteration follows insertion order.
func makeRowKey(id core.ID) []byte {
	buf := make([]byte, len(rowPrefix)+8)
	offset := copy(buf, rowPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
