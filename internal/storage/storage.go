package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cyberpills/avisos/internal/schedule"
)

// SnapshotFile is the snapshot file name inside the data directory.
const SnapshotFile = "schedule_snapshot.json"

// Storage handles persistence of schedule snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// SnapshotPath returns the path to the snapshot file
func (s *Storage) SnapshotPath() string {
	return filepath.Join(s.dataDir, SnapshotFile)
}

// LoadSnapshot loads the previous snapshot. A missing file yields an empty snapshot.
func (s *Storage) LoadSnapshot() (*schedule.Snapshot, error) {
	data, err := os.ReadFile(s.SnapshotPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return schedule.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot schedule.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Teachers == nil {
		snapshot.Teachers = make(map[string][]schedule.Entry)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *schedule.Snapshot) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.SnapshotPath(), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// SaveIndex creates and saves a snapshot of the index
func (s *Storage) SaveIndex(ix *schedule.Index) error {
	return s.SaveSnapshot(schedule.CreateSnapshot(ix, ""))
}
