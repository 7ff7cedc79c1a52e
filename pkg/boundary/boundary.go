// Package boundary exposes the vault to foreign callers through a deliberately
// narrow surface: string paths in, string paths and byte slices out.
//
// The adapter adds no semantics of its own. Its single job is marshalling:
// every error from the underlying engine is flattened into a boundary Error
// carrying only the rendered message chain, so bindings on the far side never
// need to understand Go error types.
package boundary

import (
	"github.com/Lingikaushikreddy/vaulted-go/pkg/vault"
)

// Error is the flattened error type crossing the boundary.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "vault error: " + e.Message
}

// flatten reduces any engine error to a boundary Error.
func flatten(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Message: err.Error()}
}

// Adapter wraps a vault handle for foreign callers.
type Adapter struct {
	inner *vault.Vault
}

// New opens the vault at path with the given key and wraps it.
func New(path string, key []byte) (*Adapter, error) {
	v, err := vault.Open(path, key)
	if err != nil {
		return nil, flatten(err)
	}
	return &Adapter{inner: v}, nil
}

// StoreFile stores the file at sourcePath and returns the stored name.
func (a *Adapter) StoreFile(sourcePath string) (string, error) {
	name, err := a.inner.StoreFile(sourcePath)
	if err != nil {
		return "", flatten(err)
	}
	return name, nil
}

// StoreMemory stores data under the given original filename and returns the
// stored name.
func (a *Adapter) StoreMemory(data []byte, filename string) (string, error) {
	name, err := a.inner.StoreMemory(data, filename)
	if err != nil {
		return "", flatten(err)
	}
	return name, nil
}

// RestoreFile restores the named container into destDir and returns the
// restored path.
func (a *Adapter) RestoreFile(storedName, destDir string) (string, error) {
	path, err := a.inner.RestoreFile(storedName, destDir)
	if err != nil {
		return "", flatten(err)
	}
	return path, nil
}

// LoadToMemory returns the plaintext of the named container.
func (a *Adapter) LoadToMemory(storedName string) ([]byte, error) {
	data, err := a.inner.LoadToMemory(storedName)
	if err != nil {
		return nil, flatten(err)
	}
	return data, nil
}

// Nuke destroys the vault directory.
func (a *Adapter) Nuke() error {
	return flatten(a.inner.Nuke())
}
