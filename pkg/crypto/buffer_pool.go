// buffer_pool.go provides buffer pooling to reduce memory allocations during
// the chunked encrypt/decrypt pipeline. Size classes match the container
// format: full plaintext chunks and full encrypted frames.
package crypto

import (
	"sync"

	"github.com/Lingikaushikreddy/vaulted-go/internal/constants"
)

// Buffer size classes for the container pipeline.
const (
	// chunkBufferSize holds one maximum plaintext chunk
	chunkBufferSize = constants.ChunkSize

	// frameBufferSize holds one maximum encrypted chunk frame
	frameBufferSize = constants.ChunkSize + constants.FrameOverhead
)

// BufferPool provides pooled byte slices for the streaming codec.
type BufferPool struct {
	chunk sync.Pool
	frame sync.Pool
}

// globalPool is the default buffer pool instance.
var globalPool = NewBufferPool()

// NewBufferPool creates a new buffer pool.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		chunk: sync.Pool{
			New: func() any {
				buf := make([]byte, chunkBufferSize)
				return &buf
			},
		},
		frame: sync.Pool{
			New: func() any {
				buf := make([]byte, frameBufferSize)
				return &buf
			},
		},
	}
}

// GetChunk returns a plaintext chunk buffer of ChunkSize bytes.
func (p *BufferPool) GetChunk() []byte {
	bufPtr := p.chunk.Get().(*[]byte)
	return (*bufPtr)[:chunkBufferSize]
}

// PutChunk returns a chunk buffer to the pool after zeroizing it; chunk
// buffers hold plaintext.
func (p *BufferPool) PutChunk(buf []byte) {
	if cap(buf) < chunkBufferSize {
		return
	}
	buf = buf[:cap(buf)]
	Zeroize(buf)
	p.chunk.Put(&buf)
}

// GetFrame returns a buffer large enough for n encrypted frame bytes.
// Requests above the frame size class are allocated directly.
func (p *BufferPool) GetFrame(n int) []byte {
	if n > frameBufferSize {
		return make([]byte, n)
	}
	bufPtr := p.frame.Get().(*[]byte)
	return (*bufPtr)[:n]
}

// PutFrame returns a frame buffer to the pool. Oversized buffers from
// GetFrame are dropped.
func (p *BufferPool) PutFrame(buf []byte) {
	if cap(buf) != frameBufferSize {
		return
	}
	buf = buf[:cap(buf)]
	p.frame.Put(&buf)
}

// GetChunkBuffer returns a chunk buffer from the default pool.
func GetChunkBuffer() []byte { return globalPool.GetChunk() }

// PutChunkBuffer returns a chunk buffer to the default pool.
func PutChunkBuffer(buf []byte) { globalPool.PutChunk(buf) }

// GetFrameBuffer returns a frame buffer from the default pool.
func GetFrameBuffer(n int) []byte { return globalPool.GetFrame(n) }

// PutFrameBuffer returns a frame buffer to the default pool.
func PutFrameBuffer(buf []byte) { globalPool.PutFrame(buf) }
