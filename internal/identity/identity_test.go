package identity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salus-health/salus/internal/errors"
)

func TestUnlock_MintsCredentialOnFirstUse(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	if m.HasCredential() {
		t.Fatal("HasCredential() = true before first unlock")
	}

	cred, err := m.Unlock()
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if !strings.HasPrefix(cred.ID, "cred-") {
		t.Errorf("credential id = %q, want cred- prefix", cred.ID)
	}
	if cred.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
	if !m.HasCredential() {
		t.Error("HasCredential() = false after unlock")
	}
}

func TestUnlock_ReturnsSameCredential(t *testing.T) {
	m := NewManager(t.TempDir())

	first, err := m.Unlock()
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	second, err := m.Unlock()
	if err != nil {
		t.Fatalf("second Unlock() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Unlock() minted a new credential: %q != %q", first.ID, second.ID)
	}
}

func TestUnlock_ReplacesCorruptCredential(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, credentialFile), []byte("{broken"), 0600); err != nil {
		t.Fatalf("write corrupt credential: %v", err)
	}

	m := NewManager(dir)
	cred, err := m.Unlock()
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if cred.ID == "" {
		t.Error("Unlock() returned empty credential after corruption")
	}
}

func TestUnlock_UnusableStore(t *testing.T) {
	m := NewManager("")

	_, err := m.Unlock()
	var capErr *errors.CapabilityError
	if !errors.As(err, &capErr) {
		t.Fatalf("Unlock() error = %v, want CapabilityError", err)
	}
	if capErr.Capability != "passkey" {
		t.Errorf("Capability = %q, want passkey", capErr.Capability)
	}
	if m.Available() {
		t.Error("Available() = true for empty state dir")
	}
}
