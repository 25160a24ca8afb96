package storage

import (
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketSessions     = "sessions"
	bucketSessionIndex = "session_index"
	bucketFindings     = "findings"
	bucketCrawls       = "crawls"
	bucketCrawlIndex   = "crawl_index"
)

// Store wraps a bbolt database persisting scan sessions, their findings,
// and crawl results. The engines never read it back; retrieval serves the
// history command and the API.
type Store struct {
	db *bbolt.DB
}

// NewStore opens a bbolt database at the given path and initializes required buckets
func NewStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketSessions, bucketSessionIndex, bucketFindings, bucketCrawls, bucketCrawlIndex} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the bbolt database
func (s *Store) Close() error {
	return s.db.Close()
}

// appendToIndex records id under key in the named index bucket, skipping
// duplicates. Index values are JSON string arrays.
func appendToIndex(tx *bbolt.Tx, bucket, key, id string) error {
	index := tx.Bucket([]byte(bucket))

	ids, err := readIndex(index.Get([]byte(key)))
	if err != nil {
		return err
	}

	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	ids = append(ids, id)

	data, err := marshalIndex(ids)
	if err != nil {
		return err
	}
	return index.Put([]byte(key), data)
}
