// Package container implements the vault container format: an encrypted
// JSON header frame followed by encrypted chunk frames, each prefixed with
// its length.
//
// Wire Format:
//
// All integers are little-endian. A container is:
//
//	+---------+-----------+-------------+---------------+-----
//	| HdrLen  | HdrFrame  | ChunkLen 1  | ChunkFrame 1  | ...
//	| 4B LE   | Variable  | 4B LE       | Variable      |
//	+---------+-----------+-------------+---------------+-----
//
// A frame is the AEAD output for one message:
//
//	+-------+----------------------+-----+
//	| Nonce | Ciphertext           | Tag |
//	| 12B   | Variable             | 16B |
//	+-------+----------------------+-----+
//
// The header frame decrypts to a JSON document describing the payload;
// chunk frames decrypt to up to 1 MiB of plaintext each, in write order.
package container

import (
	"time"

	"github.com/Lingikaushikreddy/vaulted-go/internal/constants"
	verrors "github.com/Lingikaushikreddy/vaulted-go/internal/errors"
)

// Header is the plaintext of a container's first frame.
type Header struct {
	// OriginalFilename is the name supplied by the caller at store time.
	// It is preserved verbatim and NOT trusted on restore.
	OriginalFilename string `json:"original_filename"`

	// Timestamp is seconds since the Unix epoch at store time.
	Timestamp uint64 `json:"timestamp"`

	// Version is the container format version.
	Version uint8 `json:"version"`

	// TotalSize is the plaintext byte count when known at store time;
	// nil for unknown-length streams.
	TotalSize *uint64 `json:"total_size,omitempty"`
}

// NewHeader builds a current-version header for the given filename.
// A system clock before the Unix epoch is recorded as timestamp 0.
func NewHeader(filename string, totalSize *uint64) Header {
	secs := time.Now().Unix()
	if secs < 0 {
		secs = 0
	}
	return Header{
		OriginalFilename: filename,
		Timestamp:        uint64(secs),
		Version:          constants.ContainerVersion,
		TotalSize:        totalSize,
	}
}

// Validate checks that the header carries a format version this reader
// understands.
func (h *Header) Validate() error {
	if h.Version != constants.ContainerVersion {
		return verrors.ErrUnsupportedVersion
	}
	return nil
}
