package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cosponsor_spider/internal/config"
	"cosponsor_spider/internal/models"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the fetched state of one run: the bill list in fetch order and
// the politician map keyed by identifier.
type Snapshot struct {
	Chamber     models.Chamber                `bson:"chamber"`
	Session     int                           `bson:"session"`
	Bills       []*models.Bill                `bson:"bills"`
	Politicians map[string]*models.Politician `bson:"politicians"`
}

type Store interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context, chamber models.Chamber, session int) (*Snapshot, error)
	Close() error
}

// Open returns the store named by cfg.Driver.
func Open(cfg config.DBConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "mongo":
		return NewMongoDB(cfg)
	case "file", "":
		return NewFileStore(cfg.Dir), nil
	}
	return nil, fmt.Errorf("unknown snapshot driver %q", cfg.Driver)
}
