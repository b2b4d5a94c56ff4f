package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/hwany-ai/patentguard/core"
)

// Key prefixes for different data types
const (
	historyPrefix          = "hist"
	historyRequesterPrefix = "histreq"
	historyExactPrefix     = "histtxt"
	historyIDSeq           = "histseq"
	schemaVersionKey       = "schema:version"
)

// makeHistoryKey generates a key for a history entry by ID.
func makeHistoryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", historyPrefix, id))
}

// requesterComponent returns the fixed-width key component for a requester.
// Requester IDs may contain the ':' separator, so the raw string cannot be
// embedded in a composite key: requester "u" would own a key range that is a
// prefix of requester "u:admin"'s. Hashing to a fixed width keeps every
// requester's range disjoint.
func requesterComponent(requester string) string {
	return fmt.Sprintf("%016x", uint64(core.IDFromContent(requester)))
}

// makeRequesterKey generates a composite key for the per-requester time index.
// Format: prefix:requesterHash:timestamp:id
func makeRequesterKey(requester string, createdAt time.Time, id core.ID) []byte {
	prefix := historyRequesterPrefix + ":" + requesterComponent(requester) + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeRequesterScanPrefix generates the iteration prefix for one requester.
func makeRequesterScanPrefix(requester string) []byte {
	return []byte(historyRequesterPrefix + ":" + requesterComponent(requester) + ":")
}

// makeRequesterSeekKey generates the reverse-iteration seek key for one
// requester: the scan prefix followed by the maximal timestamp and ID.
func makeRequesterSeekKey(requester string) []byte {
	prefix := makeRequesterScanPrefix(requester)
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	for i := offset; i < len(buf); i++ {
		buf[i] = 0xFF
	}
	return buf
}

// makeExactKey generates a key for the exact-text index.
// Format: prefix:requesterHash:ideaHash
func makeExactKey(requester string, ideaHash core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", historyExactPrefix, requesterComponent(requester), ideaHash))
}
