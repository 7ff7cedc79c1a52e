package crypto_test

import (
	"testing"

	"github.com/Lingikaushikreddy/vaulted-go/internal/constants"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/crypto"
)

func TestBufferPoolChunk(t *testing.T) {
	pool := crypto.NewBufferPool()

	buf := pool.GetChunk()
	if len(buf) != constants.ChunkSize {
		t.Fatalf("chunk buffer length: got %d, want %d", len(buf), constants.ChunkSize)
	}

	buf[0] = 0xFF
	pool.PutChunk(buf)

	buf2 := pool.GetChunk()
	if buf2[0] != 0 {
		t.Error("recycled chunk buffer was not zeroized")
	}
}

func TestBufferPoolFrame(t *testing.T) {
	pool := crypto.NewBufferPool()

	sizes := []int{1, 4096, constants.ChunkSize + constants.FrameOverhead}
	for _, n := range sizes {
		buf := pool.GetFrame(n)
		if len(buf) != n {
			t.Errorf("frame buffer for %d: got len %d", n, len(buf))
		}
		pool.PutFrame(buf)
	}
}

func TestBufferPoolFrameOversized(t *testing.T) {
	pool := crypto.NewBufferPool()

	n := constants.ChunkSize + constants.FrameOverhead + 1
	buf := pool.GetFrame(n)
	if len(buf) != n {
		t.Fatalf("oversized frame buffer: got len %d, want %d", len(buf), n)
	}
	// Must not panic when returned
	pool.PutFrame(buf)
}
