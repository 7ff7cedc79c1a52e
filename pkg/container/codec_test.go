package container_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/Lingikaushikreddy/vaulted-go/internal/constants"
	verrors "github.com/Lingikaushikreddy/vaulted-go/internal/errors"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/container"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/crypto"
)

func newCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	c, _, err := crypto.NewRandom()
	if err != nil {
		t.Fatalf("NewRandom failed: %v", err)
	}
	return c
}

func encode(t *testing.T, cipher *crypto.Cipher, h container.Header, chunks ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := container.NewWriter(&buf, cipher)
	if err := w.WriteHeader(&h); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	for _, chunk := range chunks {
		if err := w.WriteChunk(chunk); err != nil {
			t.Fatalf("WriteChunk failed: %v", err)
		}
	}
	return buf.Bytes()
}

func TestCodecRoundTrip(t *testing.T) {
	cipher := newCipher(t)
	size := uint64(11)
	hdr := container.NewHeader("notes.txt", &size)

	encoded := encode(t, cipher, hdr, []byte("hello"), []byte(" world"))

	r := container.NewReader(bytes.NewReader(encoded), cipher)
	got, err := r.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if got.OriginalFilename != "notes.txt" {
		t.Errorf("filename: got %q, want %q", got.OriginalFilename, "notes.txt")
	}
	if got.Version != constants.ContainerVersion {
		t.Errorf("version: got %d, want %d", got.Version, constants.ContainerVersion)
	}
	if got.TotalSize == nil || *got.TotalSize != size {
		t.Errorf("total size: got %v, want %d", got.TotalSize, size)
	}

	var restored bytes.Buffer
	for {
		chunk, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		restored.Write(chunk)
	}
	if restored.String() != "hello world" {
		t.Errorf("restored payload: got %q", restored.String())
	}
}

func TestCodecHeaderOnly(t *testing.T) {
	cipher := newCipher(t)
	encoded := encode(t, cipher, container.NewHeader("empty.bin", nil))

	r := container.NewReader(bytes.NewReader(encoded), cipher)
	if _, err := r.ReadHeader(); err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next on empty payload: got %v, want io.EOF", err)
	}
}

func TestCodecSkipsEmptyChunks(t *testing.T) {
	cipher := newCipher(t)
	encoded := encode(t, cipher, container.NewHeader("sparse.bin", nil), nil, []byte("data"), nil)

	r := container.NewReader(bytes.NewReader(encoded), cipher)
	if _, err := r.ReadHeader(); err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}

	chunk, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !bytes.Equal(chunk, []byte("data")) {
		t.Errorf("chunk: got %q", chunk)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next after last chunk: got %v, want io.EOF", err)
	}
}

func TestCodecChunkTooLarge(t *testing.T) {
	cipher := newCipher(t)
	var buf bytes.Buffer
	w := container.NewWriter(&buf, cipher)
	if err := w.WriteChunk(make([]byte, constants.ChunkSize+1)); !verrors.Is(err, verrors.ErrFrameTooLarge) {
		t.Errorf("oversized WriteChunk: got %v, want ErrFrameTooLarge", err)
	}
}

func TestCodecRejectsUnknownVersion(t *testing.T) {
	cipher := newCipher(t)
	hdr := container.NewHeader("future.bin", nil)
	hdr.Version = 2

	encoded := encode(t, cipher, hdr)

	r := container.NewReader(bytes.NewReader(encoded), cipher)
	if _, err := r.ReadHeader(); !verrors.Is(err, verrors.ErrUnsupportedVersion) {
		t.Errorf("ReadHeader with version 2: got %v, want ErrUnsupportedVersion", err)
	}
}

func TestCodecTruncation(t *testing.T) {
	cipher := newCipher(t)
	encoded := encode(t, cipher, container.NewHeader("trunc.bin", nil), bytes.Repeat([]byte{0x42}, 256))

	tests := []struct {
		name string
		cut  int // bytes removed from the tail
	}{
		{"one byte", 1},
		{"half the last frame", 140},
		{"inside the length prefix", 256 + constants.FrameOverhead + 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := container.NewReader(bytes.NewReader(encoded[:len(encoded)-tt.cut]), cipher)
			if _, err := r.ReadHeader(); err != nil {
				t.Fatalf("ReadHeader failed: %v", err)
			}
			for {
				_, err := r.Next()
				if err == io.EOF {
					t.Fatal("truncated container read to a clean EOF")
				}
				if err != nil {
					return // any non-EOF error is a detected truncation
				}
			}
		})
	}
}

func TestCodecTamperedFrame(t *testing.T) {
	cipher := newCipher(t)
	encoded := encode(t, cipher, container.NewHeader("tamper.bin", nil), []byte("payload"))

	// Flip a bit inside the chunk frame, past the header frame
	hdrLen := binary.LittleEndian.Uint32(encoded[:constants.LenPrefixSize])
	offset := constants.LenPrefixSize + int(hdrLen) + constants.LenPrefixSize + 3
	encoded[offset] ^= 0x80

	r := container.NewReader(bytes.NewReader(encoded), cipher)
	if _, err := r.ReadHeader(); err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if _, err := r.Next(); !verrors.Is(err, verrors.ErrAuthenticationFailed) {
		t.Errorf("Next on tampered frame: got %v, want ErrAuthenticationFailed", err)
	}
}

func TestCodecInsaneFrameLength(t *testing.T) {
	cipher := newCipher(t)
	var buf bytes.Buffer
	var lenBuf [constants.LenPrefixSize]byte
	binary.LittleEndian.PutUint32(lenBuf[:], constants.MaxFrameSize+1)
	buf.Write(lenBuf[:])

	r := container.NewReader(&buf, cipher)
	if _, err := r.ReadHeader(); !verrors.Is(err, verrors.ErrFrameTooLarge) {
		t.Errorf("ReadHeader with oversized prefix: got %v, want ErrFrameTooLarge", err)
	}
}

func TestCodecWrongKey(t *testing.T) {
	encoded := encode(t, newCipher(t), container.NewHeader("keyed.bin", nil), []byte("secret"))

	r := container.NewReader(bytes.NewReader(encoded), newCipher(t))
	if _, err := r.ReadHeader(); !verrors.Is(err, verrors.ErrAuthenticationFailed) {
		t.Errorf("ReadHeader under wrong key: got %v, want ErrAuthenticationFailed", err)
	}
}
