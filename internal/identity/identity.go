// Package identity models the passkey capability. A credential is a random
// identifier persisted in the state directory; unlocking either loads the
// existing credential or mints a new one. When the credential store is
// unusable the caller degrades to an anonymous session instead of failing.
package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/salus-health/salus/internal/errors"
)

const credentialFile = "passkey.json"

// Credential is a locally stored passkey credential.
type Credential struct {
	ID        string    `json:"credential_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager loads and registers passkey credentials under a state directory.
type Manager struct {
	stateDir string
}

// NewManager creates a credential manager rooted at stateDir.
func NewManager(stateDir string) *Manager {
	return &Manager{stateDir: stateDir}
}

// Available reports whether the credential store can be used at all. A false
// return means every session on this machine is anonymous.
func (m *Manager) Available() bool {
	if m.stateDir == "" {
		return false
	}
	if err := os.MkdirAll(m.stateDir, 0755); err != nil {
		return false
	}
	return true
}

// Unlock returns the stored credential, minting and persisting a new one on
// first use. Returns a CapabilityError when the store is unusable; callers
// treat that as "continue anonymously", not as a failure.
func (m *Manager) Unlock() (*Credential, error) {
	if !m.Available() {
		return nil, errors.NewCapabilityError("passkey", nil)
	}

	path := filepath.Join(m.stateDir, credentialFile)
	data, err := os.ReadFile(path)
	if err == nil {
		var cred Credential
		if jsonErr := json.Unmarshal(data, &cred); jsonErr == nil && cred.ID != "" {
			return &cred, nil
		}
		// Corrupt credential file: re-register rather than locking the
		// user out of their own machine.
	} else if !os.IsNotExist(err) {
		return nil, errors.NewCapabilityError("passkey", err)
	}

	return m.register(path)
}

// HasCredential reports whether a credential already exists, without minting
// one. The landing view uses this to label the returning-user path.
func (m *Manager) HasCredential() bool {
	if m.stateDir == "" {
		return false
	}
	data, err := os.ReadFile(filepath.Join(m.stateDir, credentialFile))
	if err != nil {
		return false
	}
	var cred Credential
	return json.Unmarshal(data, &cred) == nil && cred.ID != ""
}

func (m *Manager) register(path string) (*Credential, error) {
	cred := &Credential{
		ID:        "cred-" + uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return nil, errors.NewCapabilityError("passkey", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, errors.NewCapabilityError("passkey", err)
	}
	return cred, nil
}
