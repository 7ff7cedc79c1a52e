// Package fl implements the on-device federated-learning client core.
//
// The client produces model-weight updates, optionally privatized with a
// Gaussian differential-privacy mechanism before they ever leave the
// device: the update vector is clipped to a fixed L2 norm and perturbed
// with noise drawn from the system CSPRNG.
package fl

import (
	"encoding/binary"
	"math"

	verrors "github.com/Lingikaushikreddy/vaulted-go/internal/errors"
	"github.com/Lingikaushikreddy/vaulted-go/pkg/crypto"
)

// ModelWeights is a flat weight vector plus its tensor shape.
type ModelWeights struct {
	Data  []float32 `json:"data"`
	Shape []uint64  `json:"shape"`
}

// Clone returns a deep copy of the weights.
func (w ModelWeights) Clone() ModelWeights {
	out := ModelWeights{
		Data:  make([]float32, len(w.Data)),
		Shape: make([]uint64, len(w.Shape)),
	}
	copy(out.Data, w.Data)
	copy(out.Shape, w.Shape)
	return out
}

// GaussianMechanism adds calibrated Gaussian noise to weight updates after
// clipping them to a fixed L2 norm.
type GaussianMechanism struct {
	sigma         float64
	clipThreshold float64
}

// NewGaussianMechanism creates a mechanism with noise multiplier sigma and
// L2 clipping threshold clip. Both parameters must be positive and finite.
func NewGaussianMechanism(sigma, clip float64) (*GaussianMechanism, error) {
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return nil, verrors.ErrInvalidPrivacyParams
	}
	if !(clip > 0) || math.IsInf(clip, 1) {
		return nil, verrors.ErrInvalidPrivacyParams
	}
	return &GaussianMechanism{sigma: sigma, clipThreshold: clip}, nil
}

// Apply clips data to the L2 threshold and adds N(0, (sigma*clip)^2) noise
// to every element. The input slice is not modified.
func (m *GaussianMechanism) Apply(data []float32) ([]float32, error) {
	out := make([]float32, len(data))

	var sumSq float64
	for _, v := range data {
		sumSq += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSq)

	scale := 1.0
	if norm > m.clipThreshold {
		scale = m.clipThreshold / norm
	}

	stddev := m.sigma * m.clipThreshold
	for i, v := range data {
		noise, err := normFloat64()
		if err != nil {
			return nil, err
		}
		out[i] = float32(float64(v)*scale + noise*stddev)
	}
	return out, nil
}

// normFloat64 draws a standard normal sample from the system CSPRNG using
// the Box-Muller transform.
func normFloat64() (float64, error) {
	u1, err := uniformOpenZero()
	if err != nil {
		return 0, err
	}
	u2, err := uniformOpenZero()
	if err != nil {
		return 0, err
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2), nil
}

// uniformOpenZero returns a uniform sample from (0, 1].
func uniformOpenZero() (float64, error) {
	var buf [8]byte
	if err := crypto.SecureRandom(buf[:]); err != nil {
		return 0, err
	}
	// 53 bits of mantissa; +1 keeps the sample away from zero for Log
	bits := binary.LittleEndian.Uint64(buf[:]) >> 11
	return (float64(bits) + 1) / float64(1<<53), nil
}

// ClientCore runs local training rounds over on-device data. A nil
// mechanism disables differential privacy.
type ClientCore struct {
	dataPath  string
	mechanism *GaussianMechanism
}

// NewClientCore creates a client over the local training data at dataPath.
func NewClientCore(dataPath string, mechanism *GaussianMechanism) *ClientCore {
	return &ClientCore{dataPath: dataPath, mechanism: mechanism}
}

// DataPath returns the local training data location.
func (c *ClientCore) DataPath() string {
	return c.dataPath
}

// PrivatizeUpdate applies the configured differential-privacy mechanism to
// a weight update. Without a mechanism the update passes through unchanged.
func (c *ClientCore) PrivatizeUpdate(update ModelWeights) (ModelWeights, error) {
	if c.mechanism == nil {
		return update, nil
	}
	noisy, err := c.mechanism.Apply(update.Data)
	if err != nil {
		return ModelWeights{}, err
	}
	return ModelWeights{Data: noisy, Shape: update.Shape}, nil
}

// Fit runs one local training round and returns the new weights: the local
// update is computed against the initial weights, privatized, and applied.
//
// TODO: replace the mock optimizer step with the on-device trainer once the
// runtime bindings land.
func (c *ClientCore) Fit(initial ModelWeights) (ModelWeights, error) {
	// Mock computation: add 0.1 to every weight
	trained := make([]float32, len(initial.Data))
	for i, w := range initial.Data {
		trained[i] = w + 0.1
	}

	update := make([]float32, len(initial.Data))
	for i := range trained {
		update[i] = trained[i] - initial.Data[i]
	}

	privatized, err := c.PrivatizeUpdate(ModelWeights{Data: update, Shape: initial.Shape})
	if err != nil {
		return ModelWeights{}, err
	}

	final := ModelWeights{
		Data:  make([]float32, len(initial.Data)),
		Shape: initial.Shape,
	}
	for i, w := range initial.Data {
		final.Data[i] = w + privatized.Data[i]
	}
	return final, nil
}
