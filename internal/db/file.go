package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cosponsor_spider/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// FileStore keeps one BSON document per chamber and session on local disk.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Path(chamber models.Chamber, session int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%d_snapshot.bson", chamber.Slug(), session))
}

func (s *FileStore) Save(_ context.Context, snap *Snapshot) error {
	data, err := bson.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	path := s.Path(snap.Chamber, snap.Session)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) Load(_ context.Context, chamber models.Chamber, session int) (*Snapshot, error) {
	path := s.Path(chamber, session)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := bson.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *FileStore) Close() error { return nil }
