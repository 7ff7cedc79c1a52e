// Package vault implements the encrypted at-rest vault engine.
//
// A vault is a flat directory of container files plus a caller-supplied
// 32-byte symmetric key. Store operations chunk an input stream, encrypt
// each chunk, and persist the frames under a freshly generated UUID name;
// restore operations decrypt the frames back into the caller's sink and
// verify the recorded total size.
//
// Operations are synchronous and blocking. Every file opened inside an
// operation is closed before the operation returns. The handle itself is
// safe to share across goroutines; callers serialize writes to the same
// stored name themselves.
package vault

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Lingikaushikreddy/vaulted-go/internal/constants"
	verrors "github.com/Lingikaushikreddy/vaulted-go/internal/errors"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/container"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/crypto"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/metrics"
)

// Vault is a handle to an open vault directory.
type Vault struct {
	root      string
	cipher    *crypto.Cipher
	log       *logrus.Logger
	collector *metrics.Collector
	tracer    metrics.Tracer

	// suiteOverride is consumed by Open before the cipher is constructed
	suiteOverride *constants.CipherSuite
}

// Option configures a vault handle.
type Option func(*Vault)

// WithLogger sets the logger used by vault operations.
func WithLogger(log *logrus.Logger) Option {
	return func(v *Vault) {
		if log != nil {
			v.log = log
		}
	}
}

// WithCollector attaches a metrics collector to the vault.
func WithCollector(c *metrics.Collector) Option {
	return func(v *Vault) {
		if c != nil {
			v.collector = c
		}
	}
}

// WithTracer attaches a tracer to the vault.
func WithTracer(t metrics.Tracer) Option {
	return func(v *Vault) {
		if t != nil {
			v.tracer = t
		}
	}
}

// WithSuite selects the AEAD cipher suite for new and existing containers.
// The default is AES-256-GCM; all containers of one vault must share a suite.
func WithSuite(suite constants.CipherSuite) Option {
	return func(v *Vault) {
		v.suiteOverride = &suite
	}
}

// Open creates or loads the vault rooted at path. The directory (and any
// missing parents) is created on first open. The key must be exactly
// 32 bytes.
func Open(path string, key []byte, opts ...Option) (*Vault, error) {
	v := &Vault{
		root:   path,
		log:    newDefaultLogger(),
		tracer: metrics.NoOpTracer{},
	}
	for _, opt := range opts {
		opt(v)
	}

	suite := constants.CipherSuiteAES256GCM
	if v.suiteOverride != nil {
		suite = *v.suiteOverride
	}

	cipher, err := crypto.New(suite, key)
	if err != nil {
		return nil, verrors.NewVaultError("Open", err)
	}
	v.cipher = cipher

	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, verrors.NewVaultError("Open", err)
	}

	v.log.WithFields(logrus.Fields{
		"root":  path,
		"suite": suite.String(),
	}).Debug("vault opened")

	return v, nil
}

// Root returns the vault's root directory.
func (v *Vault) Root() string {
	return v.root
}

// StoreStream encrypts the bytes of input into a new container and returns
// the stored name (`<uuid>.enc`). The original filename travels inside the
// encrypted header only. Pass totalSize when the plaintext length is known
// so restores can verify it; pass nil for unknown-length streams.
//
// On any failure the partially written container is removed (best-effort)
// and no stored name is returned.
func (v *Vault) StoreStream(input io.Reader, filename string, totalSize *uint64) (string, error) {
	_, end := v.tracer.StartSpan(context.Background(), "vault.StoreStream",
		metrics.WithAttributes(map[string]interface{}{"filename": filename}))
	start := time.Now()

	name, written, err := v.storeStream(input, filename, totalSize)
	end(err)
	if err != nil {
		if v.collector != nil {
			v.collector.StoreFailed()
		}
		return "", verrors.NewVaultError("StoreStream", err)
	}

	if v.collector != nil {
		v.collector.StoreCompleted(written, time.Since(start))
	}
	v.log.WithFields(logrus.Fields{
		"stored_name": name,
		"bytes":       written,
	}).Debug("container stored")

	return name, nil
}

func (v *Vault) storeStream(input io.Reader, filename string, totalSize *uint64) (name string, written uint64, err error) {
	name = uuid.NewString() + constants.StoredNameSuffix
	destPath := filepath.Join(v.root, name)

	f, err := os.Create(destPath)
	if err != nil {
		return "", 0, fmt.Errorf("create container: %w", err)
	}

	defer func() {
		if err != nil {
			// Symmetric cleanup: do not leave a partial container behind
			if rmErr := os.Remove(destPath); rmErr != nil {
				v.log.WithError(rmErr).WithField("stored_name", name).
					Warn("could not remove partial container")
			}
		}
	}()

	out := bufio.NewWriter(f)
	w := container.NewWriter(out, v.cipher)

	header := container.NewHeader(filename, totalSize)
	if err = w.WriteHeader(&header); err != nil {
		f.Close()
		return "", 0, err
	}

	buf := crypto.GetChunkBuffer()
	defer crypto.PutChunkBuffer(buf)

	for {
		n, readErr := io.ReadFull(input, buf)
		if n > 0 {
			if err = w.WriteChunk(buf[:n]); err != nil {
				f.Close()
				return "", 0, err
			}
			written += uint64(n)
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			f.Close()
			err = fmt.Errorf("read input: %w", readErr)
			return "", 0, err
		}
	}

	if err = out.Flush(); err != nil {
		f.Close()
		return "", 0, fmt.Errorf("flush container: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", 0, fmt.Errorf("close container: %w", err)
	}
	return name, written, nil
}

// StoreFile stores the file at sourcePath. The file's name component becomes
// the original filename and its size is recorded for truncation detection.
// Fails before any container is created if the source is absent.
func (v *Vault) StoreFile(sourcePath string) (string, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return "", verrors.NewVaultError("StoreFile", err)
	}

	filename := filepath.Base(sourcePath)
	if !usableName(filename) {
		return "", verrors.NewVaultError("StoreFile", verrors.ErrInvalidState)
	}

	f, err := os.Open(sourcePath)
	if err != nil {
		return "", verrors.NewVaultError("StoreFile", err)
	}
	defer f.Close()

	size := uint64(info.Size())
	return v.StoreStream(bufio.NewReader(f), filename, &size)
}

// StoreMemory stores a byte slice under the given original filename.
func (v *Vault) StoreMemory(data []byte, filename string) (string, error) {
	size := uint64(len(data))
	return v.StoreStream(bytes.NewReader(data), filename, &size)
}

// RestoreStream decrypts the container named storedName into output and
// returns its header. When the header records a total size, the restored
// byte count must match it exactly or a truncation error is returned.
// If output implements `Flush() error` it is flushed before returning.
func (v *Vault) RestoreStream(storedName string, output io.Writer) (*container.Header, error) {
	_, end := v.tracer.StartSpan(context.Background(), "vault.RestoreStream",
		metrics.WithAttributes(map[string]interface{}{"stored_name": storedName}))
	start := time.Now()

	header, written, err := v.restoreStream(storedName, output)
	end(err)
	if err != nil {
		v.noteRestoreFailure(err)
		return nil, verrors.NewVaultError("RestoreStream", err)
	}

	if v.collector != nil {
		v.collector.RestoreCompleted(written, time.Since(start))
	}
	return header, nil
}

func (v *Vault) restoreStream(storedName string, output io.Writer) (*container.Header, uint64, error) {
	f, err := os.Open(filepath.Join(v.root, storedName))
	if err != nil {
		return nil, 0, fmt.Errorf("open container: %w", err)
	}
	defer f.Close()

	r := container.NewReader(bufio.NewReader(f), v.cipher)
	header, err := r.ReadHeader()
	if err != nil {
		return nil, 0, err
	}

	written, err := v.processChunks(r, output, header.TotalSize)
	if err != nil {
		return nil, 0, err
	}
	return header, written, nil
}

// processChunks drains chunk frames into output and enforces the total-size
// invariant when expected is non-nil.
func (v *Vault) processChunks(r *container.Reader, output io.Writer, expected *uint64) (uint64, error) {
	var written uint64
	for {
		chunk, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, err
		}
		if _, err := output.Write(chunk); err != nil {
			return written, fmt.Errorf("write plaintext: %w", err)
		}
		written += uint64(len(chunk))
	}

	if expected != nil && written != *expected {
		return written, verrors.ErrTruncated
	}

	if fl, ok := output.(interface{ Flush() error }); ok {
		if err := fl.Flush(); err != nil {
			return written, fmt.Errorf("flush output: %w", err)
		}
	}
	return written, nil
}

// RestoreFile decrypts the container named storedName into destDir and
// returns the restored file's path.
//
// The header's original filename is reduced to its final path component
// before use; headers whose filename has no usable component (empty, "/",
// ".", "..") are rejected. On any chunk-processing failure the partially
// written destination file is removed (best-effort) and the original error
// is returned.
func (v *Vault) RestoreFile(storedName, destDir string) (string, error) {
	_, end := v.tracer.StartSpan(context.Background(), "vault.RestoreFile",
		metrics.WithAttributes(map[string]interface{}{"stored_name": storedName}))
	start := time.Now()

	destPath, written, err := v.restoreFile(storedName, destDir)
	end(err)
	if err != nil {
		v.noteRestoreFailure(err)
		return "", verrors.NewVaultError("RestoreFile", err)
	}

	if v.collector != nil {
		v.collector.RestoreCompleted(written, time.Since(start))
	}
	v.log.WithFields(logrus.Fields{
		"stored_name": storedName,
		"dest":        destPath,
	}).Debug("container restored to file")

	return destPath, nil
}

func (v *Vault) restoreFile(storedName, destDir string) (string, uint64, error) {
	src, err := os.Open(filepath.Join(v.root, storedName))
	if err != nil {
		return "", 0, fmt.Errorf("open container: %w", err)
	}
	defer src.Close()

	r := container.NewReader(bufio.NewReader(src), v.cipher)
	header, err := r.ReadHeader()
	if err != nil {
		return "", 0, err
	}

	// Security critical: only the final path component of the untrusted
	// header filename may reach the filesystem
	safeName := filepath.Base(header.OriginalFilename)
	if !usableName(safeName) {
		return "", 0, verrors.ErrInvalidState
	}
	destPath := filepath.Join(destDir, safeName)

	dest, err := os.Create(destPath)
	if err != nil {
		return "", 0, fmt.Errorf("create destination: %w", err)
	}

	out := bufio.NewWriter(dest)
	written, err := v.processChunks(r, out, header.TotalSize)
	if err == nil {
		err = dest.Close()
	} else {
		dest.Close()
	}
	if err != nil {
		if rmErr := os.Remove(destPath); rmErr != nil {
			v.log.WithError(rmErr).WithField("dest", destPath).
				Warn("could not remove partial destination")
		}
		return "", 0, err
	}
	return destPath, written, nil
}

// LoadToMemory decrypts the container named storedName and returns its
// plaintext bytes.
func (v *Vault) LoadToMemory(storedName string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := v.RestoreStream(storedName, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Nuke recursively deletes the vault directory and everything under it.
// The handle must not be used after a successful purge.
func (v *Vault) Nuke() error {
	if err := os.RemoveAll(v.root); err != nil {
		return verrors.NewVaultError("Nuke", err)
	}
	if v.collector != nil {
		v.collector.VaultNuked()
	}
	v.log.WithField("root", v.root).Debug("vault nuked")
	return nil
}

// noteRestoreFailure updates counters for a failed restore, tracking AEAD
// authentication failures separately.
func (v *Vault) noteRestoreFailure(err error) {
	if v.collector == nil {
		return
	}
	v.collector.RestoreFailed()
	if verrors.Is(err, verrors.ErrAuthenticationFailed) {
		v.collector.AuthFailure()
	}
}

// usableName reports whether name is a plain final path component.
func usableName(name string) bool {
	switch name {
	case "", ".", "..", "/", `\`:
		return false
	}
	return true
}

// newDefaultLogger returns the logger used when none is injected:
// warnings and above to stderr.
func newDefaultLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return log
}
