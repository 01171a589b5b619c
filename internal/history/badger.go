package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/quantmind-br/reposync/internal/domain"
)

// Ensure Store implements domain.Recorder
var _ domain.Recorder = (*Store)(nil)

// ErrNotFound indicates no record exists for a repository
var ErrNotFound = errors.New("history record not found")

// Store keeps the last outcome per repository in BadgerDB
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens (or creates) a history store
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			return nil, fmt.Errorf("history directory is required")
		}
		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	// Disable logging unless explicitly enabled
	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Record stores the outcome of a finished job, replacing any previous one
func (s *Store) Record(ctx context.Context, batchID string, result domain.JobResult) error {
	return s.Put(ctx, NewRecord(batchID, result, s.now()))
}

// Put writes rec under its repository key
func (s *Store) Put(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key(rec.Name)), data)
	})
}

// Get returns the record of one repository
func (s *Store) Get(ctx context.Context, name string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key(name)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}

// List returns every record sorted by repository name
func (s *Store) List(ctx context.Context) ([]Record, error) {
	var records []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(KeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// Delete removes the record of one repository
func (s *Store) Delete(ctx context.Context, name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(Key(name)))
	})
}

// Clear removes all records
func (s *Store) Clear() error {
	return s.db.DropAll()
}

// Close releases store resources
func (s *Store) Close() error {
	return s.db.Close()
}
