// codec.go implements the streaming reader and writer for container files.
//
// The reader is a small state machine: length prefix, frame, repeat. A clean
// EOF is only legal where a length prefix would begin; anywhere else a short
// read surfaces as an I/O error, which is how truncated containers are
// detected before the total-size invariant is ever consulted.
package container

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Lingikaushikreddy/vaulted-go/internal/constants"
	verrors "github.com/Lingikaushikreddy/vaulted-go/internal/errors"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/crypto"
)

// Writer encodes a container onto an output sink.
type Writer struct {
	w      io.Writer
	cipher *crypto.Cipher
}

// NewWriter creates a container writer over the given sink and cipher.
func NewWriter(w io.Writer, cipher *crypto.Cipher) *Writer {
	return &Writer{w: w, cipher: cipher}
}

// WriteHeader serializes, encrypts, and writes the header frame.
// It must be called exactly once, before any chunk.
func (cw *Writer) WriteHeader(h *Header) error {
	plain, err := json.Marshal(h)
	if err != nil {
		return verrors.NewSerializationError(err)
	}
	return cw.writeFrame(plain)
}

// WriteChunk encrypts and writes one chunk frame. Empty chunks are skipped.
// The plaintext must not exceed the chunk size.
func (cw *Writer) WriteChunk(plain []byte) error {
	if len(plain) == 0 {
		return nil
	}
	if len(plain) > constants.ChunkSize {
		return verrors.ErrFrameTooLarge
	}
	return cw.writeFrame(plain)
}

func (cw *Writer) writeFrame(plain []byte) error {
	frame, err := cw.cipher.Encrypt(plain)
	if err != nil {
		return err
	}

	var lenBuf [constants.LenPrefixSize]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(frame)))

	if _, err := cw.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := cw.w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Reader decodes a container from an input source.
type Reader struct {
	r      io.Reader
	cipher *crypto.Cipher
}

// NewReader creates a container reader over the given source and cipher.
func NewReader(r io.Reader, cipher *crypto.Cipher) *Reader {
	return &Reader{r: r, cipher: cipher}
}

// ReadHeader reads, decrypts, and parses the header frame. It must be
// called exactly once, before Next. Headers with an unknown format version
// are rejected.
func (cr *Reader) ReadHeader() (*Header, error) {
	frame, err := cr.readFrame(false)
	if err != nil {
		return nil, err
	}
	defer crypto.PutFrameBuffer(frame)

	plain, err := cr.cipher.Decrypt(frame)
	if err != nil {
		return nil, err
	}

	var h Header
	if err := json.Unmarshal(plain, &h); err != nil {
		return nil, verrors.NewSerializationError(err)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return &h, nil
}

// Next reads and decrypts the next chunk frame. It returns io.EOF once the
// source ends cleanly at a frame boundary; an EOF anywhere inside a length
// prefix or frame is reported as an I/O error.
func (cr *Reader) Next() ([]byte, error) {
	frame, err := cr.readFrame(true)
	if err != nil {
		return nil, err
	}
	defer crypto.PutFrameBuffer(frame)

	return cr.cipher.Decrypt(frame)
}

// readFrame reads one length-prefixed frame into a pooled buffer.
// When atBoundary is true, a clean EOF before the length prefix is
// propagated as io.EOF; otherwise any EOF is an error.
func (cr *Reader) readFrame(atBoundary bool) ([]byte, error) {
	var lenBuf [constants.LenPrefixSize]byte
	if _, err := io.ReadFull(cr.r, lenBuf[:]); err != nil {
		if err == io.EOF && atBoundary {
			return nil, io.EOF
		}
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read frame length: %w", err)
	}

	frameLen := binary.LittleEndian.Uint32(lenBuf[:])
	if frameLen > constants.MaxFrameSize {
		return nil, verrors.ErrFrameTooLarge
	}

	// Frames shorter than a nonce+tag are rejected by Decrypt
	frame := crypto.GetFrameBuffer(int(frameLen))
	if _, err := io.ReadFull(cr.r, frame); err != nil {
		crypto.PutFrameBuffer(frame)
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return frame, nil
}
