// Package storage keeps serialized model artifacts in a BoltDB file so the
// registry can load models without a directory of loose JSON files.
//
// Each import replaces the current artifact for a name and is also appended to
// a history bucket keyed by name and import time.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"hiring-assistant/internal/ml"
)

const (
	modelsBucket  = "models"  // current artifact per model name
	historyBucket = "history" // every imported artifact, keyed "name_timestamp"
)

// Store provides persistent storage for model artifacts using BoltDB.
type Store struct {
	db *bbolt.DB
}

// ArtifactInfo describes a stored artifact without its payload.
type ArtifactInfo struct {
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Version    string    `json:"version,omitempty"`
	Size       int       `json:"size"`
	ImportedAt time.Time `json:"importedAt"`
}

type record struct {
	ArtifactInfo
	Data json.RawMessage `json:"data"`
}

// New opens (or creates) the artifact database at dbPath and makes sure the
// buckets exist.
func New(dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(modelsBucket)); err != nil {
			return fmt.Errorf("create models bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(historyBucket)); err != nil {
			return fmt.Errorf("create history bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database. Closing twice is harmless.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// PutArtifact decodes data as a model artifact and, if it is valid, stores it
// as the current artifact for name.
func (s *Store) PutArtifact(name string, data []byte) (ArtifactInfo, error) {
	if name == "" {
		return ArtifactInfo{}, fmt.Errorf("artifact name cannot be empty")
	}
	_, a, err := ml.DecodeArtifact(data)
	if err != nil {
		return ArtifactInfo{}, fmt.Errorf("refusing to store %s: %w", name, err)
	}

	rec := record{
		ArtifactInfo: ArtifactInfo{
			Name:       name,
			Kind:       a.Kind,
			Version:    a.Version,
			Size:       len(data),
			ImportedAt: time.Now().UTC(),
		},
		Data: data,
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return ArtifactInfo{}, fmt.Errorf("marshal artifact: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(modelsBucket)).Put([]byte(name), value); err != nil {
			return err
		}
		return tx.Bucket([]byte(historyBucket)).Put(historyKey(name, rec.ImportedAt), value)
	})
	if err != nil {
		return ArtifactInfo{}, err
	}
	return rec.ArtifactInfo, nil
}

// GetArtifact returns the raw artifact stored under name.
func (s *Store) GetArtifact(name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(modelsBucket)).Get([]byte(name))
		if v == nil {
			return &ml.ArtifactNotFoundError{Name: name}
		}
		var rec record
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("corrupt record for %s: %w", name, err)
		}
		// v is only valid inside the transaction.
		data = append([]byte(nil), rec.Data...)
		return nil
	})
	return data, err
}

// DeleteArtifact removes the current artifact for name. History is kept.
func (s *Store) DeleteArtifact(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(modelsBucket))
		if b.Get([]byte(name)) == nil {
			return &ml.ArtifactNotFoundError{Name: name}
		}
		return b.Delete([]byte(name))
	})
}

// ListArtifacts returns the current artifacts sorted by name.
func (s *Store) ListArtifacts() ([]ArtifactInfo, error) {
	var out []ArtifactInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(modelsBucket)).ForEach(func(k, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil // Skip malformed records
			}
			out = append(out, rec.ArtifactInfo)
			return nil
		})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// History returns every artifact imported under name between start and end,
// oldest first. The range is inclusive.
func (s *Store) History(name string, start, end time.Time) ([]ArtifactInfo, error) {
	var out []ArtifactInfo

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(historyBucket)).Cursor()

		prefix := []byte(name + "_")
		startKey := historyKey(name, start)
		endKey := historyKey(name, end)

		for k, v := c.Seek(startKey); k != nil && bytes.Compare(k, endKey) <= 0; k, v = c.Next() {
			if !bytes.HasPrefix(k, prefix) {
				continue
			}
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				continue // Skip malformed records
			}
			out = append(out, rec.ArtifactInfo)
		}
		return nil
	})

	return out, err
}

// historyKey zero-pads the timestamp so keys sort chronologically.
func historyKey(name string, ts time.Time) []byte {
	return []byte(fmt.Sprintf("%s_%020d", name, ts.UnixNano()))
}
