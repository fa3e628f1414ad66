package catalog

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/ludic-systems/grouplay"
)

/***

Progress store database format:

	gStoreStateKey                  => storeState (JSON)
	0x02, levelID...                => SessionSnapshot (JSON)

One snapshot per level id; saving replaces the previous snapshot wholesale
since a snapshot is already the flat image of a whole session.

***/

var (
	gStoreStateKey = []byte{0x00, 0x00, 0x01}
	gSnapKeyPrefix = []byte{0x02}
)

const (
	majorVers = 2024
	minorVers = 1
)

type storeState struct {
	MajorVers int `json:"major_vers"`
	MinorVers int `json:"minor_vers"`
}

// Opts specifies params for opening a progress store.
type Opts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
}

// store is a db wrapper persisting session snapshots per level.
type store struct {
	db       *badger.DB
	readOnly bool
}

// OpenStore opens (or creates) the progress store for a player profile.
func OpenStore(opts Opts) (grouplay.ProgressStore, error) {
	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single-writer store, disable for performance
	dbOpts.Logger = nil

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(grouplay.ErrBadStoreParam, "DbPathName must be specified for a read-only store")
		}
		dbOpts.InMemory = true
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	st := &store{
		db:       db,
		readOnly: opts.ReadOnly,
	}

	if err = st.checkState(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// checkState loads the version entry, writing a fresh one on first open.
func (st *store) checkState() error {
	var state storeState

	err := st.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gStoreStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if err == badger.ErrKeyNotFound {
		if st.readOnly {
			return errors.Wrap(grouplay.ErrBadStoreParam, "read-only store was never initialized")
		}
		state = storeState{MajorVers: majorVers, MinorVers: minorVers}
		return st.db.Update(func(txn *badger.Txn) error {
			buf, err := json.Marshal(&state)
			if err != nil {
				return err
			}
			return txn.Set(gStoreStateKey, buf)
		})
	}
	if err != nil {
		return err
	}

	if state.MajorVers != majorVers || state.MinorVers > minorVers {
		return errors.Wrapf(grouplay.ErrBadStoreParam, "store version %d.%d is incompatible", state.MajorVers, state.MinorVers)
	}
	return nil
}

func snapKey(levelID string) []byte {
	return append(append([]byte{}, gSnapKeyPrefix...), levelID...)
}

func (st *store) SaveSnapshot(snap *grouplay.SessionSnapshot) error {
	if snap == nil || snap.LevelID == "" {
		return errors.Wrap(grouplay.ErrBadStoreParam, "snapshot has no level id")
	}
	if st.readOnly {
		return errors.Wrap(grouplay.ErrBadStoreParam, "store is read-only")
	}

	buf, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return st.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapKey(snap.LevelID), buf)
	})
}

func (st *store) LoadSnapshot(levelID string) (*grouplay.SessionSnapshot, error) {
	var snap *grouplay.SessionSnapshot

	err := st.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapKey(levelID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			snap = &grouplay.SessionSnapshot{}
			return json.Unmarshal(val, snap)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, errors.Wrapf(grouplay.ErrSnapshotNotFound, "level %q", levelID)
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (st *store) Close() error {
	if st.db != nil {
		err := st.db.Close()
		st.db = nil
		return err
	}
	return nil
}
