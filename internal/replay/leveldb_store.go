package replay

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"go.uber.org/zap"

	"github.com/farconic/custody-api/internal/domain"
	"github.com/farconic/custody-api/internal/logger"
)

// LevelStore keeps consumed uids in a local leveldb file so replay
// protection survives process restarts.
type LevelStore struct {
	db *leveldb.DB
}

var consumedMarker = []byte{1}

// OpenLevelStore opens (or creates) the database at path.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open replay db %s: %w", path, err)
	}
	logger.Info("opened replay store", zap.String("path", path))
	return &LevelStore{db: db}, nil
}

func (s *LevelStore) Has(uid domain.UID) (bool, error) {
	ok, err := s.db.Has(uid[:], nil)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (s *LevelStore) Put(uid domain.UID) error {
	return s.db.Put(uid[:], consumedMarker, nil)
}

// All returns every consumed uid; used once at startup to warm the guard.
func (s *LevelStore) All() ([]domain.UID, error) {
	var uids []domain.UID
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()
		if len(key) != 32 {
			continue
		}
		var uid domain.UID
		copy(uid[:], key)
		uids = append(uids, uid)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return uids, nil
}

func (s *LevelStore) Close() error {
	return s.db.Close()
}
