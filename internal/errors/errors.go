// Package errors defines custom error types for the Vaulted encrypted vault.
// These errors provide detailed information for debugging while maintaining
// security by not leaking sensitive information in error messages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for cryptographic operations
var (
	// ErrInvalidKeySize indicates that a supplied key is not 32 bytes
	ErrInvalidKeySize = errors.New("crypto: invalid key size")

	// ErrEncryptionFailed indicates that AEAD encryption failed
	ErrEncryptionFailed = errors.New("crypto: encryption failed")

	// ErrAuthenticationFailed indicates AEAD authentication/decryption failed
	ErrAuthenticationFailed = errors.New("crypto: authentication failed")

	// ErrCiphertextTooShort indicates ciphertext is too short to carry a nonce
	ErrCiphertextTooShort = errors.New("crypto: ciphertext too short")

	// ErrUnsupportedSuite indicates an unknown or disabled cipher suite
	ErrUnsupportedSuite = errors.New("crypto: unsupported cipher suite")
)

// Sentinel errors for the container format
var (
	// ErrUnsupportedVersion indicates a container header with an unknown
	// format version
	ErrUnsupportedVersion = errors.New("container: unsupported format version")

	// ErrFrameTooLarge indicates a frame length prefix above the format bound
	ErrFrameTooLarge = errors.New("container: frame too large")
)

// Sentinel errors for vault operations
var (
	// ErrInvalidState indicates a header or source path whose filename has
	// no usable final component
	ErrInvalidState = errors.New("vault: invalid state")

	// ErrTruncated indicates the restored byte count disagrees with the
	// total size recorded in the container header
	ErrTruncated = errors.New("vault: data truncation detected")

	// ErrIntegrity indicates a failed integrity check.
	// Reserved: authentication failures currently surface as crypto errors.
	ErrIntegrity = errors.New("vault: integrity check failed")
)

// Sentinel errors for the federated-learning client
var (
	// ErrInvalidPrivacyParams indicates a non-positive or non-finite
	// differential-privacy parameter
	ErrInvalidPrivacyParams = errors.New("fl: invalid privacy parameters")
)

// Sentinel errors for the upload channel
var (
	// ErrEnvelopeTooShort indicates an envelope too short to carry a KEM
	// ciphertext and an AEAD frame
	ErrEnvelopeTooShort = errors.New("network: envelope too short")
)

// CryptoError wraps a cryptographic error with additional context
type CryptoError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewCryptoError creates a new CryptoError
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// VaultError wraps a vault operation error with the operation name
type VaultError struct {
	Op  string // Vault operation (e.g., "StoreStream", "RestoreFile")
	Err error  // Underlying error
}

func (e *VaultError) Error() string {
	return fmt.Sprintf("vault %s: %v", e.Op, e.Err)
}

func (e *VaultError) Unwrap() error {
	return e.Err
}

// NewVaultError creates a new VaultError
func NewVaultError(op string, err error) *VaultError {
	return &VaultError{Op: op, Err: err}
}

// SerializationError wraps a header encode/decode failure
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("header serialization: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// NewSerializationError creates a new SerializationError
func NewSerializationError(err error) *SerializationError {
	return &SerializationError{Err: err}
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
