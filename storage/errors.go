package storage

import "errors"

// Error kinds shared by every geodata store. Callers classify failures with
// errors.Is against these values.
var (
	// ErrConfigMissing is fatal, the data root is not configured.
	ErrConfigMissing = errors.New("geodata root directory is not configured")
	// ErrSourceUnavailable means the backing file is absent or unreadable.
	// It is terminal for that source.
	ErrSourceUnavailable = errors.New("geodata source unavailable")
	// ErrTruncated is a short read or a packed field running past its buffer.
	ErrTruncated = errors.New("geodata record truncated")
	// ErrCorrupt is a malformed header or record.
	ErrCorrupt = errors.New("geodata record corrupt")
	// ErrNoData is a normal negative result, the point is not covered.
	ErrNoData = errors.New("no data at the requested location")
	// ErrAllocation is fatal, a record asks for more memory than is allowed.
	ErrAllocation = errors.New("geodata record exceeds allocation limit")
)
