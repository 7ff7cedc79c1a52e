//go:build fips
// +build fips

// Package crypto provides the cryptographic primitives for the Vaulted
// encrypted vault.
//
// This file is compiled when the "fips" build tag is specified.
// In FIPS mode, only FIPS 140-3 approved algorithms are available.
package crypto

import "github.com/Lingikaushikreddy/vaulted-go/internal/constants"

// FIPSMode reports whether the binary was built in FIPS mode.
// When true, only FIPS 140-3 approved suites (AES-256-GCM) are available.
func FIPSMode() bool { return true }

// SupportedSuites returns the cipher suites available in FIPS mode.
func SupportedSuites() []constants.CipherSuite {
	return []constants.CipherSuite{
		constants.CipherSuiteAES256GCM,
	}
}
