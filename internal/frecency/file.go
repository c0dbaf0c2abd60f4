package frecency

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Load reads the store at path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	s := NewStore()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	if s.Teams == nil {
		s.Teams = make(map[string]Entry)
	}
	return s, nil
}

// Save writes the store to path under an exclusive lock, replacing the file
// atomically so concurrent readers never see a partial write.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquiring state lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*.yml")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Touch loads the store at path, records the team and saves it back.
func Touch(path, teamID, name string, now time.Time) (*Store, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.Record(teamID, name, now)
	if err := s.Save(path); err != nil {
		return nil, err
	}
	return s, nil
}
