// Package persist saves and restores the whole system state as a single JSON
// snapshot file, the server-side equivalent of the desktop application's
// save-to-disk feature.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hg360/hg360/internal/domain/admin"
	"github.com/hg360/hg360/internal/domain/claim"
	"github.com/hg360/hg360/internal/domain/identity"
	"github.com/hg360/hg360/internal/domain/policy"
	"github.com/hg360/hg360/internal/domain/prescription"
)

// DefaultFile is the snapshot location when none is configured.
const DefaultFile = "healthguard360_data.json"

// Version identifies the snapshot layout. Bump when the shape changes.
const Version = 1

// ErrNoData is returned by Load when no snapshot file exists yet.
var ErrNoData = errors.New("no saved data")

// Snapshot is the serialized form of every directory in the system.
type Snapshot struct {
	Version       int                          `json:"version"`
	SavedAt       time.Time                    `json:"saved_at"`
	Claims        []*claim.Claim               `json:"claims"`
	Policies      []*policy.Policy             `json:"policies"`
	Prescriptions []*prescription.Prescription `json:"prescriptions"`
	Patients      []*identity.Patient          `json:"patients"`
	Users         []*identity.User             `json:"users"`
	Enterprises   []*admin.Enterprise          `json:"enterprises"`
	Organizations []*admin.Organization        `json:"organizations"`
}

// Save writes the snapshot to path. The write is atomic: the data lands in a
// temp file first and replaces the target with a rename, so a crash mid-write
// never leaves a truncated snapshot behind.
func Save(path string, s *Snapshot) error {
	s.Version = Version
	s.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot from path. A missing file is reported as ErrNoData so
// callers can distinguish first-run from a broken snapshot.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version > Version {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", s.Version, Version)
	}
	return &s, nil
}

// Exists reports whether a snapshot file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Delete removes the snapshot file. Deleting a missing file is not an error.
func Delete(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Size returns the snapshot file size in bytes, or 0 when absent.
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
