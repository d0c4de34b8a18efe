// Package history stores accepted command lines durably across shell
// invocations. Grounded on elves-elvish's pkg/store/cmd.go: one bucket,
// a monotonic sequence key per entry, Put/Iterate over a bolt.DB.
package history

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "cmd_history"

// Store is a durable, append-only command history.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add appends cmd to the history, returning its sequence number.
func (s *Store) Add(cmd string) (int, error) {
	if s == nil {
		return 0, nil
	}
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(cmd))
	})
	return int(seq), err
}

// Recent returns up to n of the most recently added commands, oldest
// first, for preloading into an interactive line editor's history ring.
func (s *Store) Recent(n int) []string {
	if s == nil {
		return nil
	}
	var all []string
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			all = append(all, string(v))
		}
		return nil
	})
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

func marshalSeq(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}
