package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/karthik0284-K/insight-scout/internal/models"
	"go.etcd.io/bbolt"
)

func readIndex(data []byte) ([]string, error) {
	if data == nil {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func marshalIndex(ids []string) ([]byte, error) {
	return json.Marshal(ids)
}

// SaveSession persists a scan session record and indexes it by target.
func (s *Store) SaveSession(session *models.ScanSession) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}

		sessions := tx.Bucket([]byte(bucketSessions))
		if err := sessions.Put([]byte(session.ID), data); err != nil {
			return err
		}

		return appendToIndex(tx, bucketSessionIndex, session.Target, session.ID)
	})
}

// GetSession retrieves a session by ID, or nil when absent.
func (s *Store) GetSession(id string) (*models.ScanSession, error) {
	var session *models.ScanSession

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketSessions)).Get([]byte(id))
		if data == nil {
			return nil
		}
		session = &models.ScanSession{}
		return json.Unmarshal(data, session)
	})

	return session, err
}

// ListSessions retrieves all sessions for a target, newest first.
func (s *Store) ListSessions(target string) ([]*models.ScanSession, error) {
	var sessions []*models.ScanSession

	err := s.db.View(func(tx *bbolt.Tx) error {
		ids, err := readIndex(tx.Bucket([]byte(bucketSessionIndex)).Get([]byte(target)))
		if err != nil {
			return err
		}

		bucket := tx.Bucket([]byte(bucketSessions))
		for _, id := range ids {
			data := bucket.Get([]byte(id))
			if data == nil {
				continue
			}
			var session models.ScanSession
			if err := json.Unmarshal(data, &session); err != nil {
				return err
			}
			sessions = append(sessions, &session)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}

// UpdateSessionStatus updates a session's status, stamping CompletedAt on
// the first transition into a terminal state.
func (s *Store) UpdateSessionStatus(id string, status models.SessionStatus) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		sessions := tx.Bucket([]byte(bucketSessions))

		data := sessions.Get([]byte(id))
		if data == nil {
			return nil
		}

		var session models.ScanSession
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}

		session.Status = status
		if (status == models.StatusComplete || status == models.StatusFailed) && session.CompletedAt == nil {
			now := time.Now()
			session.CompletedAt = &now
		}

		updated, err := json.Marshal(&session)
		if err != nil {
			return err
		}
		return sessions.Put([]byte(id), updated)
	})
}

// SaveFindings batch-inserts all findings for one session in a single
// transaction, keyed ip:port inside a per-session sub-bucket.
func (s *Store) SaveFindings(sessionID string, findings []models.PortScanFinding) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		parent := tx.Bucket([]byte(bucketFindings))
		bucket, err := parent.CreateBucketIfNotExists([]byte(sessionID))
		if err != nil {
			return err
		}

		for _, f := range findings {
			data, err := json.Marshal(f)
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%s:%d", f.IP, f.Port)
			if err := bucket.Put([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetFindings retrieves all findings recorded for a session.
func (s *Store) GetFindings(sessionID string) ([]models.PortScanFinding, error) {
	var findings []models.PortScanFinding

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketFindings)).Bucket([]byte(sessionID))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var f models.PortScanFinding
			if err := json.Unmarshal(v, &f); err != nil {
				return err
			}
			findings = append(findings, f)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].IP != findings[j].IP {
			return findings[i].IP < findings[j].IP
		}
		return findings[i].Port < findings[j].Port
	})
	return findings, nil
}
