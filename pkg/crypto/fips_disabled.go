//go:build !fips
// +build !fips

// Package crypto provides the cryptographic primitives for the Vaulted
// encrypted vault.
//
// This file is compiled when the "fips" build tag is NOT specified.
// In standard mode, all supported algorithms are available.
package crypto

import "github.com/Lingikaushikreddy/vaulted-go/internal/constants"

// FIPSMode reports whether the binary was built in FIPS mode.
// When false, all supported suites (AES-256-GCM and ChaCha20-Poly1305)
// are available.
func FIPSMode() bool { return false }

// SupportedSuites returns the cipher suites available in standard mode.
func SupportedSuites() []constants.CipherSuite {
	return []constants.CipherSuite{
		constants.CipherSuiteAES256GCM,
		constants.CipherSuiteChaCha20Poly1305,
	}
}
