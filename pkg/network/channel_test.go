package network_test

import (
	"math"
	"testing"

	verrors "github.com/Lingikaushikreddy/vaulted-go/internal/errors"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/fl"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/network"
)

func testWeights() fl.ModelWeights {
	return fl.ModelWeights{
		Data:  []float32{0.25, -1.5, 3.75},
		Shape: []uint64{3},
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	pubBytes, privBytes, err := network.GenerateServerKeyPair()
	if err != nil {
		t.Fatalf("GenerateServerKeyPair failed: %v", err)
	}
	priv, err := network.ParsePrivateKey(privBytes)
	if err != nil {
		t.Fatalf("ParsePrivateKey failed: %v", err)
	}

	var captured []byte
	ch, err := network.NewChannel("agg.example.com:8443", pubBytes,
		network.WithTransport(func(endpoint string, envelope []byte) error {
			captured = envelope
			return nil
		}))
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}

	if err := ch.Upload(7, testWeights()); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if captured == nil {
		t.Fatal("transport was not invoked")
	}

	rec, err := network.OpenRecord(priv, captured)
	if err != nil {
		t.Fatalf("OpenRecord failed: %v", err)
	}
	if rec.Round != 7 {
		t.Errorf("round: got %d, want 7", rec.Round)
	}
	want := testWeights()
	if len(rec.Weights.Data) != len(want.Data) {
		t.Fatalf("weights length: got %d, want %d", len(rec.Weights.Data), len(want.Data))
	}
	for i := range want.Data {
		if math.Abs(float64(rec.Weights.Data[i]-want.Data[i])) > 1e-6 {
			t.Errorf("weight %d: got %g, want %g", i, rec.Weights.Data[i], want.Data[i])
		}
	}
}

func TestOpenRecordWrongKey(t *testing.T) {
	pubBytes, _, err := network.GenerateServerKeyPair()
	if err != nil {
		t.Fatalf("GenerateServerKeyPair failed: %v", err)
	}
	_, otherPrivBytes, err := network.GenerateServerKeyPair()
	if err != nil {
		t.Fatalf("GenerateServerKeyPair failed: %v", err)
	}
	otherPriv, err := network.ParsePrivateKey(otherPrivBytes)
	if err != nil {
		t.Fatalf("ParsePrivateKey failed: %v", err)
	}

	var captured []byte
	ch, err := network.NewChannel("agg.example.com:8443", pubBytes,
		network.WithTransport(func(endpoint string, envelope []byte) error {
			captured = envelope
			return nil
		}))
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}
	if err := ch.Upload(1, testWeights()); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	// ML-KEM decapsulation is implicit-rejection: the wrong key yields a
	// different shared secret, so the AEAD open must fail
	if _, err := network.OpenRecord(otherPriv, captured); !verrors.Is(err, verrors.ErrAuthenticationFailed) {
		t.Errorf("OpenRecord with wrong key: got %v, want ErrAuthenticationFailed", err)
	}
}

func TestOpenRecordTooShort(t *testing.T) {
	_, privBytes, err := network.GenerateServerKeyPair()
	if err != nil {
		t.Fatalf("GenerateServerKeyPair failed: %v", err)
	}
	priv, err := network.ParsePrivateKey(privBytes)
	if err != nil {
		t.Fatalf("ParsePrivateKey failed: %v", err)
	}

	if _, err := network.OpenRecord(priv, make([]byte, 100)); !verrors.Is(err, verrors.ErrEnvelopeTooShort) {
		t.Errorf("OpenRecord on short envelope: got %v, want ErrEnvelopeTooShort", err)
	}
}

func TestNewChannelRejectsBadKey(t *testing.T) {
	if _, err := network.NewChannel("agg.example.com:8443", []byte("not a key")); err == nil {
		t.Error("NewChannel accepted a malformed server key")
	}
}

func TestDefaultTransportDiscards(t *testing.T) {
	pubBytes, _, err := network.GenerateServerKeyPair()
	if err != nil {
		t.Fatalf("GenerateServerKeyPair failed: %v", err)
	}
	ch, err := network.NewChannel("agg.example.com:8443", pubBytes)
	if err != nil {
		t.Fatalf("NewChannel failed: %v", err)
	}
	if err := ch.Upload(1, testWeights()); err != nil {
		t.Errorf("Upload with default transport failed: %v", err)
	}
}
