package errors_test

import (
	stderrors "errors"
	"strings"
	"testing"

	verrors "github.com/Lingikaushikreddy/vaulted-go/internal/errors"
)

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		verrors.ErrInvalidKeySize,
		verrors.ErrEncryptionFailed,
		verrors.ErrAuthenticationFailed,
		verrors.ErrCiphertextTooShort,
		verrors.ErrUnsupportedSuite,
		verrors.ErrUnsupportedVersion,
		verrors.ErrFrameTooLarge,
		verrors.ErrInvalidState,
		verrors.ErrTruncated,
		verrors.ErrIntegrity,
		verrors.ErrInvalidPrivacyParams,
		verrors.ErrEnvelopeTooShort,
	}

	seen := make(map[string]bool)
	for _, err := range sentinels {
		if err.Error() == "" {
			t.Error("sentinel with empty message")
		}
		if seen[err.Error()] {
			t.Errorf("duplicate sentinel message %q", err.Error())
		}
		seen[err.Error()] = true
	}
}

func TestCryptoErrorWrapping(t *testing.T) {
	err := verrors.NewCryptoError("Encrypt", verrors.ErrAuthenticationFailed)

	if !stderrors.Is(err, verrors.ErrAuthenticationFailed) {
		t.Error("errors.Is should see through CryptoError")
	}
	if !strings.Contains(err.Error(), "Encrypt") {
		t.Errorf("message should carry the operation: %q", err.Error())
	}

	var ce *verrors.CryptoError
	if !stderrors.As(err, &ce) {
		t.Fatal("errors.As failed for CryptoError")
	}
	if ce.Op != "Encrypt" {
		t.Errorf("Op: got %q, want Encrypt", ce.Op)
	}
}

func TestVaultErrorWrapping(t *testing.T) {
	inner := verrors.NewCryptoError("Decrypt", verrors.ErrAuthenticationFailed)
	err := verrors.NewVaultError("RestoreFile", inner)

	// The whole chain must stay visible through both wrappers
	if !stderrors.Is(err, verrors.ErrAuthenticationFailed) {
		t.Error("errors.Is should traverse VaultError and CryptoError")
	}

	var ve *verrors.VaultError
	if !stderrors.As(err, &ve) {
		t.Fatal("errors.As failed for VaultError")
	}
	if ve.Op != "RestoreFile" {
		t.Errorf("Op: got %q, want RestoreFile", ve.Op)
	}
}

func TestSerializationErrorWrapping(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := verrors.NewSerializationError(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should see through SerializationError")
	}
	if !strings.Contains(err.Error(), "serialization") {
		t.Errorf("message: %q", err.Error())
	}
}

func TestConvenienceWrappers(t *testing.T) {
	err := verrors.NewVaultError("Open", verrors.ErrInvalidKeySize)

	if !verrors.Is(err, verrors.ErrInvalidKeySize) {
		t.Error("verrors.Is mismatch with stdlib errors.Is")
	}
	var ve *verrors.VaultError
	if !verrors.As(err, &ve) {
		t.Error("verrors.As mismatch with stdlib errors.As")
	}
}
