// Package store persists diagram specs so they can be rendered again by id.
//
// Two backends implement [Store]:
//
//   - [SQLiteStore]: a single file, for the CLI and single-node servers
//   - [MongoStore]: a shared collection for replicated servers
//
// [Open] picks one from a DSN: "mongodb://" and "mongodb+srv://" URIs go to
// MongoDB, anything else is a SQLite path (":memory:" included).
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/archdeck/pkg/errors"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "diagram not found")

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is a stored diagram.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Format    string    `json:"format" bson:"format"` // "json" or "toml"
	Spec      []byte    `json:"spec" bson:"spec"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store persists diagram records.
type Store interface {
	// Put stores r. An empty ID gets a fresh UUID and a zero CreatedAt is
	// set to now; the stored record is returned. Putting an existing ID
	// replaces it.
	Put(ctx context.Context, r Record) (Record, error)

	// Get returns the record with the given id or [ErrNotFound].
	Get(ctx context.Context, id string) (Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a record. Deleting a missing id returns [ErrNotFound].
	Delete(ctx context.Context, id string) error

	Close() error
}

// Open opens the store named by dsn.
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://") {
		return NewMongoStore(ctx, MongoConfig{URI: dsn})
	}
	return NewSQLiteStore(dsn)
}

// prepare fills in the id and timestamp of a record about to be stored.
func prepare(r Record) Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.CreatedAt = r.CreatedAt.Truncate(time.Millisecond)
	return r
}

func limitOr(n int) int {
	if n <= 0 {
		return DefaultListLimit
	}
	return n
}
