// Package store persists users and transactions in an embedded bolt
// database. Values are JSON; numeric ids come from the bucket sequence.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/boltdb/bolt"
)

var (
	bucketTransactions = []byte("transactions")
	bucketUsers        = []byte("users")
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("record not found")

// Store wraps the bolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path and ensures the buckets
// exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketTransactions, bucketUsers} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTransaction assigns an id and persists t. A zero UserID defaults to
// the fixed principal.
func (s *Store) CreateTransaction(t *Transaction) error {
	if t.UserID == 0 {
		t.UserID = DefaultUserID
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("store: next sequence: %w", err)
		}
		t.ID = int64(seq)
		val, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("store: encode transaction: %w", err)
		}
		return b.Put(itob(t.ID), val)
	})
}

// GetTransaction fetches one transaction owned by userID.
func (s *Store) GetTransaction(userID, id int64) (*Transaction, error) {
	var t *Transaction
	err := s.db.View(func(tx *bolt.Tx) error {
		val := tx.Bucket(bucketTransactions).Get(itob(id))
		if val == nil {
			return ErrNotFound
		}
		var decoded Transaction
		if err := json.Unmarshal(val, &decoded); err != nil {
			return fmt.Errorf("store: decode transaction %d: %w", id, err)
		}
		if decoded.UserID != userID {
			return ErrNotFound
		}
		t = &decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTransaction applies a partial update and returns the stored record.
func (s *Store) UpdateTransaction(userID, id int64, patch TransactionPatch) (*Transaction, error) {
	var updated *Transaction
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		val := b.Get(itob(id))
		if val == nil {
			return ErrNotFound
		}
		var t Transaction
		if err := json.Unmarshal(val, &t); err != nil {
			return fmt.Errorf("store: decode transaction %d: %w", id, err)
		}
		if t.UserID != userID {
			return ErrNotFound
		}

		if patch.Type != nil {
			t.Type = *patch.Type
		}
		if patch.Amount != nil {
			t.Amount = *patch.Amount
		}
		if patch.Category != nil {
			t.Category = *patch.Category
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Date != nil {
			t.Date = *patch.Date
		}

		out, err := json.Marshal(&t)
		if err != nil {
			return fmt.Errorf("store: encode transaction %d: %w", id, err)
		}
		updated = &t
		return b.Put(itob(id), out)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction removes one transaction owned by userID.
func (s *Store) DeleteTransaction(userID, id int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		val := b.Get(itob(id))
		if val == nil {
			return ErrNotFound
		}
		var t Transaction
		if err := json.Unmarshal(val, &t); err != nil {
			return fmt.Errorf("store: decode transaction %d: %w", id, err)
		}
		if t.UserID != userID {
			return ErrNotFound
		}
		return b.Delete(itob(id))
	})
}

// ListTransactions returns the user's transactions matching filter, ordered
// by date descending then id descending. The single-user dataset is small
// enough that a full scan is fine.
func (s *Store) ListTransactions(userID int64, filter TransactionFilter) ([]*Transaction, error) {
	var result []*Transaction
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketTransactions).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var t Transaction
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("store: decode transaction: %w", err)
			}
			if t.UserID != userID {
				continue
			}
			if filter.Type != "" && t.Type != filter.Type {
				continue
			}
			if filter.StartDate != nil && t.Date.Before(filter.StartDate.Time) {
				continue
			}
			if filter.EndDate != nil && t.Date.After(filter.EndDate.Time) {
				continue
			}
			tc := t
			result = append(result, &tc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date.Time) {
			return result[i].Date.After(result[j].Date.Time)
		}
		return result[i].ID > result[j].ID
	})

	if filter.Skip > 0 {
		if filter.Skip >= len(result) {
			return []*Transaction{}, nil
		}
		result = result[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(id int64) (*User, error) {
	var u *User
	err := s.db.View(func(tx *bolt.Tx) error {
		val := tx.Bucket(bucketUsers).Get(itob(id))
		if val == nil {
			return ErrNotFound
		}
		var decoded User
		if err := json.Unmarshal(val, &decoded); err != nil {
			return fmt.Errorf("store: decode user %d: %w", id, err)
		}
		u = &decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser persists a new user. Usernames are unique.
func (s *Store) CreateUser(username, nickname string) (*User, error) {
	u := &User{
		Username:  username,
		Nickname:  nickname,
		CreatedAt: time.Now(),
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var existing User
			if err := json.Unmarshal(v, &existing); err != nil {
				return fmt.Errorf("store: decode user: %w", err)
			}
			if existing.Username == username {
				return fmt.Errorf("store: username %q already exists", username)
			}
		}
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("store: next sequence: %w", err)
		}
		u.ID = int64(seq)
		val, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("store: encode user: %w", err)
		}
		return b.Put(itob(u.ID), val)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureDefaultUser returns the fixed principal, creating it on first use.
func (s *Store) EnsureDefaultUser() (*User, error) {
	u, err := s.GetUser(DefaultUserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.CreateUser("default", "记账小达人")
}

// itob encodes an id as a big-endian key so bolt keeps insertion order.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
