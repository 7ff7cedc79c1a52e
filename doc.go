// Package vaulted provides an encrypted at-rest vault: arbitrary byte streams
// are persisted as self-describing encrypted container files in a vault
// directory and later reconstructed under their original filename.
//
// Every container is a sequence of length-prefixed AEAD frames. The first
// frame carries an encrypted JSON header (original filename, timestamp,
// format version, optional total size); the remaining frames carry plaintext
// chunks of up to 1 MiB each. Each frame embeds its own fresh random nonce,
// so records are individually decryptable and tamper-evident.
//
// # Quick Start
//
// Storing and restoring through a vault:
//
//	import "github.com/Lingikaushikreddy/vaulted-go/pkg/vault"
//
//	v, _ := vault.Open("/data/vault", key)
//	name, _ := v.StoreMemory([]byte("secret"), "note.txt")
//	data, _ := v.LoadToMemory(name)
//
// For the low-level AEAD primitive:
//
//	import "github.com/Lingikaushikreddy/vaulted-go/pkg/crypto"
//
//	cipher, key, _ := crypto.NewRandom()
//	frame, _ := cipher.Encrypt(plaintext)
//	plain, _ := cipher.Decrypt(frame)
//
// # Package Structure
//
// The library is organized into several packages:
//
//   - pkg/crypto: AEAD cipher suites, secure randomness, buffer pooling
//   - pkg/container: vault header and length-prefixed frame codec
//   - pkg/vault: the vault engine (store, restore, purge)
//   - pkg/fl: federated-learning client core with differential privacy
//   - pkg/network: sealed upload envelopes for model-weight records
//   - pkg/boundary: string-and-byte adapter for foreign callers
//   - pkg/metrics: operation metrics, Prometheus export, tracing
//   - internal/constants: container format parameters
//   - internal/errors: error taxonomy shared across packages
//
// # Security Properties
//
// The container format provides:
//
//   - Confidentiality and integrity: AES-256-GCM (or ChaCha20-Poly1305)
//     with a fresh 96-bit random nonce per frame
//   - Tamper evidence: any bit flip inside a frame fails authentication
//   - Truncation detection: short reads at frame boundaries are I/O errors,
//     and restored byte counts are checked against the header's total size
//   - Path safety: stored names are random UUIDs, and the original filename
//     is reduced to its final path component before any restore to disk
//
// Keys are caller-supplied raw 32-byte values; the library performs no key
// derivation or password stretching.
package vaulted
