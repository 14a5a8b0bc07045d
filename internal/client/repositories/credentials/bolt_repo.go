package credentials

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltBucket = "credentials"

// BoltRepository keeps credentials in one bbolt bucket. Every SetMany and
// RemoveMany is a single bbolt Update transaction.
type BoltRepository struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens (creating if needed) the bbolt file at path.
func OpenBolt(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltRepository{db: db, bucket: []byte(boltBucket)}, nil
}

func (r *BoltRepository) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(r.bucket).Get([]byte(key))
		if v != nil {
			// v is only valid inside the transaction
			value, ok = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, ok, nil
}

func (r *BoltRepository) Set(ctx context.Context, key, value string) error {
	return r.SetMany(ctx, map[string]string{key: value})
}

func (r *BoltRepository) Remove(ctx context.Context, key string) error {
	return r.RemoveMany(ctx, key)
}

func (r *BoltRepository) SetMany(_ context.Context, values map[string]string) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		for k, v := range values {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set credentials: %w", err)
	}
	return nil
}

func (r *BoltRepository) RemoveMany(_ context.Context, keys ...string) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}
