// Package store caches derived lightcurves on disk so repeated analysis of an
// observation skips the raw file parse. Entries are snappy-compressed JSON,
// one file per observation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"

	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

// Extension marks cached lightcurve files.
const Extension = ".lcz"

// ErrNotCached is returned when no entry exists for the observation.
var ErrNotCached = errors.New("store: observation not cached")

// ObservationStore persists derived lightcurves under a single directory.
type ObservationStore struct {
	dir string
}

// New opens (and creates if needed) an observation store rooted at dir.
func New(dir string) (*ObservationStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &ObservationStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *ObservationStore) Dir() string {
	return s.dir
}

// Save writes the lightcurve for its observation ID, replacing any previous
// entry. The write goes through a temp file and rename so readers never see a
// partial entry.
func (s *ObservationStore) Save(lc *lightcurve.Lightcurve) error {
	if lc.ObsID == "" {
		return errors.New("store: lightcurve has no observation ID")
	}

	raw, err := json.Marshal(lc)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", lc.ObsID, err)
	}
	compressed := snappy.Encode(nil, raw)

	path := s.path(lc.ObsID)
	tmp, err := os.CreateTemp(s.dir, lc.ObsID+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", lc.ObsID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: close %s: %w", lc.ObsID, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: rename %s: %w", lc.ObsID, err)
	}
	return nil
}

// Load reads the cached lightcurve for an observation ID.
func (s *ObservationStore) Load(obsID string) (*lightcurve.Lightcurve, error) {
	compressed, err := os.ReadFile(s.path(obsID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("store: read %s: %w", obsID, err)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("store: decompress %s: %w", obsID, err)
	}

	var lc lightcurve.Lightcurve
	if err := json.Unmarshal(raw, &lc); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", obsID, err)
	}
	return &lc, nil
}

// Delete removes an observation's cache entry. Deleting a missing entry
// returns ErrNotCached.
func (s *ObservationStore) Delete(obsID string) error {
	err := os.Remove(s.path(obsID))
	if os.IsNotExist(err) {
		return ErrNotCached
	}
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", obsID, err)
	}
	return nil
}

// List returns the observation IDs with cache entries, in directory order.
func (s *ObservationStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, Extension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, Extension))
	}
	return ids, nil
}

func (s *ObservationStore) path(obsID string) string {
	return filepath.Join(s.dir, obsID+Extension)
}
