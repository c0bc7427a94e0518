package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ClaimStore snapshots settled analyses to the local state directory so the
// claims view keeps working when the backend is unreachable. Claims are
// stored as one JSON file per record under {baseDir}/claims.
type ClaimStore struct {
	baseDir string
	mu      sync.RWMutex
}

// NewClaimStore creates a ClaimStore rooted at the given state directory.
// The claims subdirectory is created if it doesn't exist.
func NewClaimStore(stateDir string) (*ClaimStore, error) {
	dir := filepath.Join(stateDir, "claims")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create claim store directory: %w", err)
	}
	return &ClaimStore{baseDir: dir}, nil
}

// Save persists one claim record. The filename embeds the creation time so
// lexical order matches chronological order.
func (cs *ClaimStore) Save(record BillRecord) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode claim: %w", err)
	}

	name := fmt.Sprintf("claim-%s.json", record.CreatedAt.UTC().Format("20060102T150405.000000000Z"))
	path := filepath.Join(cs.baseDir, name)
	return atomicWriteFile(path, data, 0644)
}

// List returns all stored claims, most recent first. Unreadable or
// corrupted files are skipped rather than failing the whole listing.
func (cs *ClaimStore) List() ([]BillRecord, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entries, err := os.ReadDir(cs.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	var records []BillRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(cs.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var record BillRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// atomicWriteFile writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial write.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
