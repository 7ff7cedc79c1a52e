// Package constants defines the container format parameters and security
// constants for the Vaulted encrypted at-rest vault.
//
// The on-disk container format is versioned; readers reject any version they
// do not understand. All multi-byte integers in the format are little-endian.
package constants

// Symmetric encryption parameters (AES-256-GCM / ChaCha20-Poly1305)
const (
	// KeySize is the size of the vault symmetric key in bytes
	KeySize = 32

	// NonceSize is the size of the per-frame AEAD nonce in bytes (96 bits)
	NonceSize = 12

	// TagSize is the size of the AEAD authentication tag in bytes
	TagSize = 16

	// FrameOverhead is the fixed per-frame ciphertext expansion:
	// the embedded nonce plus the authentication tag
	FrameOverhead = NonceSize + TagSize
)

// Container format parameters
const (
	// ContainerVersion is the current container format version.
	// Readers reject headers carrying any other value.
	ContainerVersion uint8 = 1

	// ChunkSize is the maximum plaintext bytes per chunk frame (1 MiB)
	ChunkSize = 1 << 20

	// LenPrefixSize is the size of the little-endian frame length prefix
	LenPrefixSize = 4

	// MaxFrameSize bounds the encrypted size of any single frame.
	// A length prefix above this is treated as corruption.
	MaxFrameSize = ChunkSize + FrameOverhead

	// StoredNameSuffix is appended to the UUID physical filename
	StoredNameSuffix = ".enc"
)

// Upload envelope parameters (pkg/network)
const (
	// EnvelopeKeySize is the size of the derived envelope AEAD key in bytes
	EnvelopeKeySize = 32

	// EnvelopeDomain is the domain separation string for envelope
	// key derivation
	EnvelopeDomain = "VAULTED-envelope-v1"
)

// CipherSuite identifies an AEAD algorithm for the vault primitive.
type CipherSuite uint16

// Supported cipher suites. The container format always uses the vault's
// configured suite; AES-256-GCM is the default.
const (
	CipherSuiteAES256GCM        CipherSuite = 0x0001
	CipherSuiteChaCha20Poly1305 CipherSuite = 0x0002
)

// String returns the suite name.
func (s CipherSuite) String() string {
	switch s {
	case CipherSuiteAES256GCM:
		return "AES-256-GCM"
	case CipherSuiteChaCha20Poly1305:
		return "ChaCha20-Poly1305"
	default:
		return "Unknown"
	}
}
