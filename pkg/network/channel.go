// Package network implements the secure upload channel for model-weight
// records.
//
// Records never leave the device in the clear: each upload encapsulates a
// fresh shared secret against the aggregation server's ML-KEM-1024 key,
// derives an envelope key with SHAKE-256, and seals the serialized record
// with the vault's AEAD primitive.
//
// Envelope Format:
//
//	+------------------+-------+----------------------+-----+
//	| KEM Ciphertext   | Nonce | Sealed Record        | Tag |
//	| 1568B            | 12B   | Variable             | 16B |
//	+------------------+-------+----------------------+-----+
//
// The actual wire transport is pluggable; the default transport logs and
// discards the envelope, matching the simulated uplink of early builds.
package network

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/sha3"

	"github.com/Lingikaushikreddy/vaulted-go/internal/constants"
	verrors "github.com/Lingikaushikreddy/vaulted-go/internal/errors"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/crypto"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/fl"
)

// scheme is the KEM used for all envelopes.
var scheme = mlkem1024.Scheme()

// Record is one round's upload: the round counter and the privatized
// weight update.
type Record struct {
	Round   uint32          `json:"round"`
	Weights fl.ModelWeights `json:"weights"`
}

// TransportFunc delivers a sealed envelope to an endpoint.
type TransportFunc func(endpoint string, envelope []byte) error

// Channel uploads weight records to an aggregation server.
type Channel struct {
	endpoint  string
	serverKey kem.PublicKey
	transport TransportFunc
	log       *logrus.Logger
}

// ChannelOption configures a Channel.
type ChannelOption func(*Channel)

// WithTransport replaces the default logging transport.
func WithTransport(t TransportFunc) ChannelOption {
	return func(c *Channel) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger sets the channel's logger.
func WithLogger(log *logrus.Logger) ChannelOption {
	return func(c *Channel) {
		if log != nil {
			c.log = log
		}
	}
}

// NewChannel creates a channel to endpoint, sealing against the server's
// marshaled ML-KEM-1024 encapsulation key.
func NewChannel(endpoint string, serverKeyBytes []byte, opts ...ChannelOption) (*Channel, error) {
	pk, err := scheme.UnmarshalBinaryPublicKey(serverKeyBytes)
	if err != nil {
		return nil, verrors.NewCryptoError("NewChannel", err)
	}

	c := &Channel{
		endpoint:  endpoint,
		serverKey: pk,
		log:       logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = c.logTransport
	}
	return c, nil
}

// Upload seals one record and hands it to the transport.
func (c *Channel) Upload(round uint32, weights fl.ModelWeights) error {
	envelope, err := SealRecord(c.serverKey, &Record{Round: round, Weights: weights})
	if err != nil {
		return err
	}

	if err := c.transport(c.endpoint, envelope); err != nil {
		return fmt.Errorf("upload round %d: %w", round, err)
	}
	return nil
}

// logTransport is the default transport: log and discard.
func (c *Channel) logTransport(endpoint string, envelope []byte) error {
	c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bytes":    len(envelope),
	}).Info("upload envelope sealed (transport not configured, discarding)")
	return nil
}

// SealRecord encapsulates a fresh shared secret against serverKey and seals
// the serialized record under a derived AEAD key. The returned envelope is
// the KEM ciphertext followed by one AEAD frame.
func SealRecord(serverKey kem.PublicKey, rec *Record) ([]byte, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, verrors.NewSerializationError(err)
	}

	kemCiphertext, sharedSecret, err := scheme.Encapsulate(serverKey)
	if err != nil {
		return nil, verrors.NewCryptoError("SealRecord", err)
	}
	defer crypto.Zeroize(sharedSecret)

	envelopeKey := deriveEnvelopeKey(sharedSecret)
	defer crypto.Zeroize(envelopeKey)

	cipher, err := crypto.NewAES256GCM(envelopeKey)
	if err != nil {
		return nil, err
	}
	frame, err := cipher.Encrypt(payload)
	if err != nil {
		return nil, err
	}

	envelope := make([]byte, 0, len(kemCiphertext)+len(frame))
	envelope = append(envelope, kemCiphertext...)
	envelope = append(envelope, frame...)
	return envelope, nil
}

// OpenRecord decapsulates and decrypts an envelope with the server's
// private key. It is the inverse of SealRecord.
func OpenRecord(serverPrivate kem.PrivateKey, envelope []byte) (*Record, error) {
	ctSize := scheme.CiphertextSize()
	if len(envelope) < ctSize+constants.NonceSize+constants.TagSize {
		return nil, verrors.ErrEnvelopeTooShort
	}

	sharedSecret, err := scheme.Decapsulate(serverPrivate, envelope[:ctSize])
	if err != nil {
		return nil, verrors.NewCryptoError("OpenRecord", err)
	}
	defer crypto.Zeroize(sharedSecret)

	envelopeKey := deriveEnvelopeKey(sharedSecret)
	defer crypto.Zeroize(envelopeKey)

	cipher, err := crypto.NewAES256GCM(envelopeKey)
	if err != nil {
		return nil, err
	}
	payload, err := cipher.Decrypt(envelope[ctSize:])
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, verrors.NewSerializationError(err)
	}
	return &rec, nil
}

// GenerateServerKeyPair generates a marshaled ML-KEM-1024 key pair for an
// aggregation server.
func GenerateServerKeyPair() (publicKey, privateKey []byte, err error) {
	pk, sk, err := scheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, verrors.NewCryptoError("GenerateServerKeyPair", err)
	}
	publicKey, err = pk.MarshalBinary()
	if err != nil {
		return nil, nil, verrors.NewCryptoError("GenerateServerKeyPair", err)
	}
	privateKey, err = sk.MarshalBinary()
	if err != nil {
		return nil, nil, verrors.NewCryptoError("GenerateServerKeyPair", err)
	}
	return publicKey, privateKey, nil
}

// ParsePrivateKey unmarshals a server private key produced by
// GenerateServerKeyPair.
func ParsePrivateKey(b []byte) (kem.PrivateKey, error) {
	sk, err := scheme.UnmarshalBinaryPrivateKey(b)
	if err != nil {
		return nil, verrors.NewCryptoError("ParsePrivateKey", err)
	}
	return sk, nil
}

// deriveEnvelopeKey derives the AEAD key from a KEM shared secret using
// SHAKE-256 with length-prefixed domain separation.
func deriveEnvelopeKey(sharedSecret []byte) []byte {
	h := sha3.NewShake256()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(constants.EnvelopeDomain)))
	h.Write(lenBuf[:])
	h.Write([]byte(constants.EnvelopeDomain))

	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(sharedSecret)))
	h.Write(lenBuf[:])
	h.Write(sharedSecret)

	key := make([]byte, constants.EnvelopeKeySize)
	h.Read(key)
	return key
}
