package storage

import (
	"encoding/json"
	"sort"

	"github.com/karthik0284-K/insight-scout/internal/models"
	"go.etcd.io/bbolt"
)

// SaveCrawl persists a crawl result and indexes it by domain.
func (s *Store) SaveCrawl(result *models.CrawlResult) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}

		crawls := tx.Bucket([]byte(bucketCrawls))
		if err := crawls.Put([]byte(result.ID), data); err != nil {
			return err
		}

		return appendToIndex(tx, bucketCrawlIndex, result.Domain, result.ID)
	})
}

// GetCrawl retrieves a crawl result by ID, or nil when absent.
func (s *Store) GetCrawl(id string) (*models.CrawlResult, error) {
	var result *models.CrawlResult

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketCrawls)).Get([]byte(id))
		if data == nil {
			return nil
		}
		result = &models.CrawlResult{}
		return json.Unmarshal(data, result)
	})

	return result, err
}

// ListCrawls retrieves all crawl results for a domain, newest first.
func (s *Store) ListCrawls(domain string) ([]*models.CrawlResult, error) {
	var results []*models.CrawlResult

	err := s.db.View(func(tx *bbolt.Tx) error {
		ids, err := readIndex(tx.Bucket([]byte(bucketCrawlIndex)).Get([]byte(domain)))
		if err != nil {
			return err
		}

		bucket := tx.Bucket([]byte(bucketCrawls))
		for _, id := range ids {
			data := bucket.Get([]byte(id))
			if data == nil {
				continue
			}
			var r models.CrawlResult
			if err := json.Unmarshal(data, &r); err != nil {
				return err
			}
			results = append(results, &r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].StartedAt.After(results[j].StartedAt)
	})
	return results, nil
}
