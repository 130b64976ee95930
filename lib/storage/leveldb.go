package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"boscoin.io/govern/lib/errors"
)

// LevelDBCore is the part of `*leveldb.DB` and `*leveldb.Transaction` the
// backend depends on.
type LevelDBCore interface {
	Has([]byte, *leveldbOpt.ReadOptions) (bool, error)
	Get([]byte, *leveldbOpt.ReadOptions) ([]byte, error)
	NewIterator(*leveldbUtil.Range, *leveldbOpt.ReadOptions) leveldbIterator.Iterator
	Put([]byte, []byte, *leveldbOpt.WriteOptions) error
	Write(*leveldb.Batch, *leveldbOpt.WriteOptions) error
	Delete([]byte, *leveldbOpt.WriteOptions) error
}

type LevelDBBackend struct {
	DB *leveldb.DB

	Core LevelDBCore
}

func setLevelDBCoreError(err error) error {
	if err == nil {
		return nil
	}

	return errors.NewError(
		errors.StorageCoreError.Code,
		fmt.Sprintf("%s: %s", errors.StorageCoreError.Message, err.Error()),
	)
}

func (st *LevelDBBackend) Init(config *Config) (err error) {
	var db *leveldb.DB

	switch config.Scheme {
	case SchemeFile:
		if db, err = leveldb.OpenFile(config.Path, nil); err != nil {
			return setLevelDBCoreError(err)
		}
	case SchemeMemory:
		sto := leveldbStorage.NewMemStorage()
		if db, err = leveldb.Open(sto, nil); err != nil {
			return setLevelDBCoreError(err)
		}
	default:
		return errors.StorageUnknownScheme.Clone().SetData("scheme", config.Scheme)
	}

	st.DB = db
	st.Core = db

	return
}

func (st *LevelDBBackend) Close() error {
	return st.DB.Close()
}

func (st *LevelDBBackend) IsTransaction() bool {
	_, ok := st.Core.(*leveldb.Transaction)
	return ok
}

func (st *LevelDBBackend) OpenTransaction() (DBBackend, error) {
	if st.IsTransaction() {
		return nil, setLevelDBCoreError(errors.New("this is already *leveldb.Transaction"))
	}

	transaction, err := st.DB.OpenTransaction()
	if err != nil {
		return nil, setLevelDBCoreError(err)
	}

	return &LevelDBBackend{
		DB:   st.DB,
		Core: transaction,
	}, nil
}

func (st *LevelDBBackend) Discard() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return setLevelDBCoreError(errors.New("this is not *leveldb.Transaction"))
	}

	ts.Discard()
	return nil
}

func (st *LevelDBBackend) Commit() error {
	ts, ok := st.Core.(*leveldb.Transaction)
	if !ok {
		return setLevelDBCoreError(errors.New("this is not *leveldb.Transaction"))
	}

	return setLevelDBCoreError(ts.Commit())
}

func (st *LevelDBBackend) makeKey(key string) []byte {
	return []byte(key)
}

func (st *LevelDBBackend) Has(k string) (bool, error) {
	ok, err := st.Core.Has(st.makeKey(k), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return false, nil
		}
		return false, setLevelDBCoreError(err)
	}

	return ok, nil
}

func (st *LevelDBBackend) GetRaw(k string) (b []byte, err error) {
	b, err = st.Core.Get(st.makeKey(k), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.StorageRecordDoesNotExist.Clone().SetData("key", k)
	}

	return b, setLevelDBCoreError(err)
}

func (st *LevelDBBackend) Get(k string, i interface{}) (err error) {
	var b []byte
	if b, err = st.GetRaw(k); err != nil {
		return
	}

	return setLevelDBCoreError(Deserialize(b, i))
}

func (st *LevelDBBackend) New(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = Serialize(v); err != nil {
		return setLevelDBCoreError(err)
	}

	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if exists {
		return errors.StorageRecordAlreadyExists.Clone().SetData("key", k)
	}

	return setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))
}

func (st *LevelDBBackend) News(vs ...Item) (err error) {
	if len(vs) < 1 {
		return setLevelDBCoreError(errors.New("empty values"))
	}

	var exists bool
	for _, v := range vs {
		if exists, err = st.Has(v.Key); err != nil {
			return
		} else if exists {
			return errors.StorageRecordAlreadyExists.Clone().SetData("key", v.Key)
		}
	}

	return st.write(vs)
}

func (st *LevelDBBackend) Set(k string, v interface{}) (err error) {
	var encoded []byte
	if encoded, err = Serialize(v); err != nil {
		return setLevelDBCoreError(err)
	}

	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if !exists {
		return errors.StorageRecordDoesNotExist.Clone().SetData("key", k)
	}

	return setLevelDBCoreError(st.Core.Put(st.makeKey(k), encoded, nil))
}

func (st *LevelDBBackend) Sets(vs ...Item) (err error) {
	if len(vs) < 1 {
		return setLevelDBCoreError(errors.New("empty values"))
	}

	var exists bool
	for _, v := range vs {
		if exists, err = st.Has(v.Key); err != nil {
			return
		} else if !exists {
			return errors.StorageRecordDoesNotExist.Clone().SetData("key", v.Key)
		}
	}

	return st.write(vs)
}

func (st *LevelDBBackend) write(vs []Item) error {
	batch := new(leveldb.Batch)
	for _, v := range vs {
		encoded, err := Serialize(v.Value)
		if err != nil {
			return setLevelDBCoreError(err)
		}

		batch.Put(st.makeKey(v.Key), encoded)
	}

	return setLevelDBCoreError(st.Core.Write(batch, nil))
}

func (st *LevelDBBackend) Remove(k string) (err error) {
	var exists bool
	if exists, err = st.Has(k); err != nil {
		return
	} else if !exists {
		return errors.StorageRecordDoesNotExist.Clone().SetData("key", k)
	}

	return setLevelDBCoreError(st.Core.Delete(st.makeKey(k), nil))
}

func (st *LevelDBBackend) GetIterator(prefix string, option ListOptions) (func() (IterItem, bool), func()) {
	reverse, cursor, limit := parseListOptions(option)

	start, end := keyRange(st.makeKey(prefix), reverse, cursor)
	iter := st.Core.NewIterator(&leveldbUtil.Range{Start: start, Limit: end}, nil)

	var funcNext func() bool
	var first bool = true
	var released bool
	var n uint64

	release := func() {
		if released {
			return
		}
		released = true
		iter.Release()
	}

	if reverse {
		funcNext = iter.Prev
	} else {
		funcNext = iter.Next
	}

	return func() (IterItem, bool) {
		if released {
			return IterItem{}, false
		}
		if limit > 0 && n >= limit {
			release()
			return IterItem{}, false
		}

		var ok bool
		if first {
			first = false
			if reverse {
				ok = iter.Last()
			} else {
				ok = iter.First()
			}
		} else {
			ok = funcNext()
		}

		if !ok {
			release()
			return IterItem{}, false
		}

		n++
		return IterItem{
			N:     n,
			Key:   append([]byte{}, iter.Key()...),
			Value: append([]byte{}, iter.Value()...),
		}, true
	}, release
}
