package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	dbFileName    = "fygallery_catalog.db"
	openTimeout   = time.Second
	RecordsBucket = "Records" // Sequence key to JSON-encoded ImageRecord, in dataset order.
	IDsBucket     = "IDs"     // Image id to sequence key.
)

// Store is a bbolt-backed catalog of image records.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger
}

// OpenStore creates or opens the catalog file at dbPath. An empty path
// places the catalog in the user config directory.
func OpenStore(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dbPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			logger.Warn("could not get user config dir, using current dir", "err", err)
			configDir = "."
		}
		appDir := filepath.Join(configDir, "fygallery")
		if err := os.MkdirAll(appDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create config directory %s: %w", appDir, err)
		}
		dbPath = filepath.Join(appDir, dbFileName)
	}
	logger.Debug("using catalog database", "path", dbPath)

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{RecordsBucket, IDsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func seqKey(i int) []byte {
	return []byte(fmt.Sprintf("%08d", i))
}

// Import validates records and replaces the catalog contents in one transaction.
func (s *Store) Import(records []ImageRecord) (int, error) {
	valid, err := Validate(records)
	if err != nil {
		return 0, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{RecordsBucket, IDsBucket} {
			if err := tx.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return fmt.Errorf("failed to clear bucket %s: %w", name, err)
			}
		}
		recBucket, err := tx.CreateBucket([]byte(RecordsBucket))
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", RecordsBucket, err)
		}
		idBucket, err := tx.CreateBucket([]byte(IDsBucket))
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", IDsBucket, err)
		}
		for i, r := range valid {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
			}
			key := seqKey(i)
			if err := recBucket.Put(key, data); err != nil {
				return fmt.Errorf("failed to put record %s: %w", r.ID, err)
			}
			if err := idBucket.Put([]byte(r.ID), key); err != nil {
				return fmt.Errorf("failed to index record %s: %w", r.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("catalog imported", "records", len(valid))
	return len(valid), nil
}

// Records implements Source, returning records in import order.
func (s *Store) Records() ([]ImageRecord, error) {
	var records []ImageRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(RecordsBucket))
		if bucket == nil {
			return nil
		}
		// bbolt iterates keys in byte order, which is sequence order here.
		return bucket.ForEach(func(k, v []byte) error {
			var r ImageRecord
			if err := json.Unmarshal(v, &r); err != nil {
				s.logger.Warn("skipping undecodable catalog record", "key", string(k), "err", err)
				return nil
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return records, nil
}

// Get looks up one record by id.
func (s *Store) Get(id string) (ImageRecord, error) {
	var r ImageRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket([]byte(IDsBucket)).Get([]byte(id))
		if key == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		data := tx.Bucket([]byte(RecordsBucket)).Get(key)
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &r)
	})
	return r, err
}
