// Package checkpoint saves and restores simulation snapshots in the
// per-user application data directory managed by gdata.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/quasilyte/gdata/v2"

	"github.com/vovakirdan/wavekit/internal/sim"
)

// AppName is the gdata application name used by Open.
const AppName = "wavekit"

const (
	objectKey     = "checkpoints"
	formatVersion = 1
)

var (
	// ErrNotFound is returned when no checkpoint has the requested name.
	ErrNotFound = errors.New("checkpoint: not found")
	// ErrVersion is returned for checkpoints written by an incompatible format.
	ErrVersion = errors.New("checkpoint: unsupported format version")
	// ErrInvalidName is returned for names that cannot be used as a property key.
	ErrInvalidName = errors.New("checkpoint: invalid name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Backend is the subset of *gdata.Manager the store needs.
type Backend interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
	DeleteObjectProp(objectKey, propKey string) error
}

// Checkpoint is a stored snapshot with its metadata.
type Checkpoint struct {
	Version  int          `json:"version"`
	Name     string       `json:"name"`
	SavedAt  time.Time    `json:"saved_at"`
	Snapshot sim.Snapshot `json:"snapshot"`
}

// Store reads and writes checkpoints.
type Store struct {
	backend Backend
	now     func() time.Time
}

// Open creates a store backed by the gdata directory for appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open data dir: %w", err)
	}
	return New(m), nil
}

// New creates a store on top of an existing backend.
func New(b Backend) *Store {
	return &Store{backend: b, now: time.Now}
}

// Save writes snap under name, replacing any previous checkpoint with that name.
func (s *Store) Save(name string, snap sim.Snapshot) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	data, err := json.Marshal(Checkpoint{
		Version:  formatVersion,
		Name:     name,
		SavedAt:  s.now().UTC(),
		Snapshot: snap,
	})
	if err != nil {
		return fmt.Errorf("checkpoint: encode %s: %w", name, err)
	}

	if err := s.backend.SaveObjectProp(objectKey, name, data); err != nil {
		return fmt.Errorf("checkpoint: save %s: %w", name, err)
	}
	return nil
}

// Load reads the checkpoint stored under name.
func (s *Store) Load(name string) (Checkpoint, error) {
	if !validName.MatchString(name) {
		return Checkpoint{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !s.backend.ObjectPropExists(objectKey, name) {
		return Checkpoint{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := s.backend.LoadObjectProp(objectKey, name)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("checkpoint: load %s: %w", name, err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, fmt.Errorf("checkpoint: decode %s: %w", name, err)
	}
	if cp.Version != formatVersion {
		return Checkpoint{}, fmt.Errorf("%w: %d", ErrVersion, cp.Version)
	}
	return cp, nil
}

// Exists reports whether a checkpoint with name is stored.
func (s *Store) Exists(name string) bool {
	return validName.MatchString(name) && s.backend.ObjectPropExists(objectKey, name)
}

// Delete removes the checkpoint stored under name.
func (s *Store) Delete(name string) error {
	if !s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := s.backend.DeleteObjectProp(objectKey, name); err != nil {
		return fmt.Errorf("checkpoint: delete %s: %w", name, err)
	}
	return nil
}
