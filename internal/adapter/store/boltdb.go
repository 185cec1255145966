package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"supportbot/internal/domain"
)

var (
	bucketProducts = []byte("products")
	bucketFAQs     = []byte("faqs")
	bucketMeta     = []byte("meta")
	bucketSessions = []byte("sessions")
	keySnapshot    = []byte("snapshot_info")
)

// progressEvery controls how often WriteSnapshot reports progress.
const progressEvery = 100

// BoltStore holds a compiled knowledge snapshot and chat session logs in a
// single bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketProducts, bucketFAQs, bucketMeta, bucketSessions} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func seqKey(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}

// WriteSnapshot replaces the stored knowledge base in one transaction.
// Records are keyed by position so reads return them in source order.
func (s *BoltStore) WriteSnapshot(kb domain.KnowledgeBase, progress func(written, total int)) error {
	total := len(kb.Products) + len(kb.FAQs)
	written := 0
	report := func() {
		written++
		if progress != nil && (written%progressEvery == 0 || written == total) {
			progress(written, total)
		}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := clearBuckets(tx, bucketProducts, bucketFAQs); err != nil {
			return err
		}

		products := tx.Bucket(bucketProducts)
		for i, p := range kb.Products {
			data, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := products.Put(seqKey(uint64(i)), data); err != nil {
				return err
			}
			report()
		}

		faqs := tx.Bucket(bucketFAQs)
		for i, f := range kb.FAQs {
			data, err := json.Marshal(f)
			if err != nil {
				return err
			}
			if err := faqs.Put(seqKey(uint64(i)), data); err != nil {
				return err
			}
			report()
		}

		info := domain.SnapshotInfo{
			Version:      CurrentSchemaVersion,
			Fingerprint:  kb.Fingerprint,
			ProductCount: len(kb.Products),
			FAQCount:     len(kb.FAQs),
			CreatedAt:    time.Now(),
		}
		data, err := json.Marshal(info)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keySnapshot, data)
	})
}

// ReadSnapshot loads the stored knowledge base. It fails with
// domain.ErrSnapshotStale when nothing was written or the snapshot was
// written by a different schema version.
func (s *BoltStore) ReadSnapshot() (domain.KnowledgeBase, domain.SnapshotInfo, error) {
	var kb domain.KnowledgeBase
	var info domain.SnapshotInfo

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySnapshot)
		if data == nil {
			return fmt.Errorf("%w: no snapshot has been written", domain.ErrSnapshotStale)
		}
		if err := json.Unmarshal(data, &info); err != nil {
			return fmt.Errorf("decode snapshot info: %w", err)
		}
		if info.Version != CurrentSchemaVersion {
			return fmt.Errorf("%w: schema v%d, expected v%d", domain.ErrSnapshotStale, info.Version, CurrentSchemaVersion)
		}

		kb.Products = make([]domain.Product, 0, info.ProductCount)
		err := tx.Bucket(bucketProducts).ForEach(func(_, v []byte) error {
			var p domain.Product
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			kb.Products = append(kb.Products, p)
			return nil
		})
		if err != nil {
			return fmt.Errorf("decode products: %w", err)
		}

		kb.FAQs = make([]domain.FAQ, 0, info.FAQCount)
		err = tx.Bucket(bucketFAQs).ForEach(func(_, v []byte) error {
			var f domain.FAQ
			if err := json.Unmarshal(v, &f); err != nil {
				return err
			}
			kb.FAQs = append(kb.FAQs, f)
			return nil
		})
		if err != nil {
			return fmt.Errorf("decode faqs: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.KnowledgeBase{}, domain.SnapshotInfo{}, err
	}

	kb.Fingerprint = info.Fingerprint
	kb.LoadedAt = info.CreatedAt
	return kb, info, nil
}

// Append adds a turn to the session log. Each session is a nested bucket
// keyed by sequence number.
func (s *BoltStore) Append(_ context.Context, sessionID string, turn domain.Turn) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(bucketSessions).CreateBucketIfNotExists([]byte(sessionID))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(turn)
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
}

func (s *BoltStore) History(_ context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	var turns []domain.Turn
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions).Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var turn domain.Turn
			if err := json.Unmarshal(v, &turn); err != nil {
				return err
			}
			turns = append(turns, turn)
			if limit > 0 && len(turns) == limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func clearBuckets(tx *bbolt.Tx, names ...[]byte) error {
	for _, name := range names {
		if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		if _, err := tx.CreateBucket(name); err != nil {
			return err
		}
	}
	return nil
}
