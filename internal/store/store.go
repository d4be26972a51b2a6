// Package store persists the local cache of posts and gallery items in a
// bbolt database. Records are stored as JSON keyed by their identity
// string; listings are sorted by creation time so the UI order is stable
// regardless of key layout.
package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zhufucdev/control-sync/internal/errors"
	"github.com/zhufucdev/control-sync/internal/model"
	bolt "go.etcd.io/bbolt"
)

const (
	// storeDirPerm is the permission mode for the cache directory.
	storeDirPerm = fs.FileMode(0o700)

	// storeFilePerm is the permission mode for the cache database file.
	storeFilePerm = fs.FileMode(0o600)

	// storeOpenTimeout is the maximum time to wait for the bolt database lock.
	storeOpenTimeout = 5 * time.Second
)

var (
	postsBucket   = []byte("posts")
	galleryBucket = []byte("gallery")
)

// Filter selects records by trashed state.
type Filter int

const (
	// FilterAll returns every record.
	FilterAll Filter = iota

	// FilterActive returns records not marked trashed.
	FilterActive

	// FilterTrashed returns soft-deleted records awaiting purge.
	FilterTrashed
)

func (f Filter) keep(trashed bool) bool {
	switch f {
	case FilterActive:
		return !trashed
	case FilterTrashed:
		return trashed
	}

	return true
}

// Store wraps a bbolt database holding the offline cache.
type Store struct {
	db *bolt.DB
}

// Open opens the cache database at ~/.control-sync/cache.db, creating it
// if it does not exist.
func Open() (*Store, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}

	return OpenAt(filepath.Join(dir, ".control-sync", "cache.db"))
}

// OpenAt opens a cache database at the given path, creating it if it
// does not exist. Useful for tests that need an isolated database.
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), storeDirPerm); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := bolt.Open(path, storeFilePerm, &bolt.Options{Timeout: storeOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(postsBucket); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists(galleryBucket)

		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func put(tx *bolt.Tx, bucket []byte, key model.Identity, record any) error {
	if !key.Valid() {
		return fmt.Errorf("invalid identity %+v", key)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return tx.Bucket(bucket).Put([]byte(key.String()), data)
}

// SavePost inserts or overwrites a post keyed by its identity.
func (s *Store) SavePost(p model.Post) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, postsBucket, p.ID, p)
	})
}

// GetPost returns the post with the given identity.
func (s *Store) GetPost(id model.Identity) (model.Post, error) {
	var p model.Post

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(postsBucket).Get([]byte(id.String()))
		if v == nil {
			return errors.ErrNotFound
		}

		return json.Unmarshal(v, &p)
	})

	return p, err
}

// DeletePost removes the post with the given identity. Deleting a
// missing post is a no-op.
func (s *Store) DeletePost(id model.Identity) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(postsBucket).Delete([]byte(id.String()))
	})
}

// ReplacePost atomically removes the record under old and stores p under
// its current identity. Used when a successful create call rewrites a
// draft identity to the server-assigned one.
func (s *Store) ReplacePost(old model.Identity, p model.Post) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(postsBucket).Delete([]byte(old.String())); err != nil {
			return err
		}

		return put(tx, postsBucket, p.ID, p)
	})
}

// Posts returns cached posts matching the filter, ordered by creation
// time ascending.
func (s *Store) Posts(f Filter) ([]model.Post, error) {
	var posts []model.Post

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(postsBucket).ForEach(func(k, v []byte) error {
			var p model.Post
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("decoding post %s: %w", k, err)
			}

			if f.keep(p.Trashed) {
				posts = append(posts, p)
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool { return posts[i].Created < posts[j].Created })

	return posts, nil
}

// SaveGalleryItem inserts or overwrites a gallery item keyed by its identity.
func (s *Store) SaveGalleryItem(g model.GalleryItem) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, galleryBucket, g.ID, g)
	})
}

// GetGalleryItem returns the gallery item with the given identity.
func (s *Store) GetGalleryItem(id model.Identity) (model.GalleryItem, error) {
	var g model.GalleryItem

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(galleryBucket).Get([]byte(id.String()))
		if v == nil {
			return errors.ErrNotFound
		}

		return json.Unmarshal(v, &g)
	})

	return g, err
}

// DeleteGalleryItem removes the gallery item with the given identity.
// Deleting a missing item is a no-op.
func (s *Store) DeleteGalleryItem(id model.Identity) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(galleryBucket).Delete([]byte(id.String()))
	})
}

// ReplaceGalleryItem atomically removes the record under old and stores
// g under its current identity.
func (s *Store) ReplaceGalleryItem(old model.Identity, g model.GalleryItem) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(galleryBucket).Delete([]byte(old.String())); err != nil {
			return err
		}

		return put(tx, galleryBucket, g.ID, g)
	})
}

// GalleryItems returns cached gallery items matching the filter, ordered
// by creation time ascending.
func (s *Store) GalleryItems(f Filter) ([]model.GalleryItem, error) {
	var items []model.GalleryItem

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(galleryBucket).ForEach(func(k, v []byte) error {
			var g model.GalleryItem
			if err := json.Unmarshal(v, &g); err != nil {
				return fmt.Errorf("decoding gallery item %s: %w", k, err)
			}

			if f.keep(g.Trashed) {
				items = append(items, g)
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Created < items[j].Created })

	return items, nil
}
