package storage

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"boscoin.io/govern/lib/errors"
)

// BadgerBackend stores the records in badger. Outside of a transaction every
// call runs in its own badger transaction.
type BadgerBackend struct {
	DB *badger.DB

	txn *badger.Txn
}

func setBadgerCoreError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.Error); ok {
		return err
	}

	return errors.NewError(
		errors.StorageCoreError.Code,
		fmt.Sprintf("%s: %s", errors.StorageCoreError.Message, err.Error()),
	)
}

func (st *BadgerBackend) Init(config *Config) (err error) {
	var opts badger.Options

	switch config.Scheme {
	case SchemeBadger:
		opts = badger.DefaultOptions(config.Path)
	case SchemeBadgerMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	default:
		return errors.StorageUnknownScheme.Clone().SetData("scheme", config.Scheme)
	}

	var db *badger.DB
	if db, err = badger.Open(opts.WithLogger(nil)); err != nil {
		return setBadgerCoreError(err)
	}

	st.DB = db
	return
}

func (st *BadgerBackend) Close() error {
	return setBadgerCoreError(st.DB.Close())
}

func (st *BadgerBackend) IsTransaction() bool {
	return st.txn != nil
}

func (st *BadgerBackend) OpenTransaction() (DBBackend, error) {
	if st.IsTransaction() {
		return nil, setBadgerCoreError(errors.New("this is already in transaction"))
	}

	return &BadgerBackend{
		DB:  st.DB,
		txn: st.DB.NewTransaction(true),
	}, nil
}

func (st *BadgerBackend) Discard() error {
	if !st.IsTransaction() {
		return setBadgerCoreError(errors.New("this is not in transaction"))
	}

	st.txn.Discard()
	return nil
}

func (st *BadgerBackend) Commit() error {
	if !st.IsTransaction() {
		return setBadgerCoreError(errors.New("this is not in transaction"))
	}

	return setBadgerCoreError(st.txn.Commit())
}

func (st *BadgerBackend) view(fn func(*badger.Txn) error) error {
	if st.IsTransaction() {
		return fn(st.txn)
	}
	return st.DB.View(fn)
}

func (st *BadgerBackend) update(fn func(*badger.Txn) error) error {
	if st.IsTransaction() {
		return fn(st.txn)
	}
	return st.DB.Update(fn)
}

func badgerHas(txn *badger.Txn, k string) (bool, error) {
	_, err := txn.Get([]byte(k))
	if err == badger.ErrKeyNotFound {
		return false, nil
	} else if err != nil {
		return false, setBadgerCoreError(err)
	}
	return true, nil
}

func (st *BadgerBackend) Has(k string) (exists bool, err error) {
	err = st.view(func(txn *badger.Txn) (err error) {
		exists, err = badgerHas(txn, k)
		return
	})
	return
}

func (st *BadgerBackend) GetRaw(k string) (b []byte, err error) {
	err = st.view(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(k))
		if err == badger.ErrKeyNotFound {
			return errors.StorageRecordDoesNotExist.Clone().SetData("key", k)
		} else if err != nil {
			return setBadgerCoreError(err)
		}

		b, err = item.ValueCopy(nil)
		return setBadgerCoreError(err)
	})
	return
}

func (st *BadgerBackend) Get(k string, i interface{}) (err error) {
	var b []byte
	if b, err = st.GetRaw(k); err != nil {
		return
	}

	return setBadgerCoreError(Deserialize(b, i))
}

// put writes the items; with `mustExist` every key must already exist,
// otherwise every key must be new.
func (st *BadgerBackend) put(mustExist bool, vs ...Item) error {
	if len(vs) < 1 {
		return setBadgerCoreError(errors.New("empty values"))
	}

	return st.update(func(txn *badger.Txn) error {
		for _, v := range vs {
			exists, err := badgerHas(txn, v.Key)
			if err != nil {
				return err
			}
			if mustExist && !exists {
				return errors.StorageRecordDoesNotExist.Clone().SetData("key", v.Key)
			} else if !mustExist && exists {
				return errors.StorageRecordAlreadyExists.Clone().SetData("key", v.Key)
			}
		}

		for _, v := range vs {
			encoded, err := Serialize(v.Value)
			if err != nil {
				return setBadgerCoreError(err)
			}
			if err = txn.Set([]byte(v.Key), encoded); err != nil {
				return setBadgerCoreError(err)
			}
		}
		return nil
	})
}

func (st *BadgerBackend) New(k string, v interface{}) error {
	return st.put(false, Item{Key: k, Value: v})
}

func (st *BadgerBackend) News(vs ...Item) error {
	return st.put(false, vs...)
}

func (st *BadgerBackend) Set(k string, v interface{}) error {
	return st.put(true, Item{Key: k, Value: v})
}

func (st *BadgerBackend) Sets(vs ...Item) error {
	return st.put(true, vs...)
}

func (st *BadgerBackend) Remove(k string) error {
	return st.update(func(txn *badger.Txn) error {
		exists, err := badgerHas(txn, k)
		if err != nil {
			return err
		} else if !exists {
			return errors.StorageRecordDoesNotExist.Clone().SetData("key", k)
		}

		return setBadgerCoreError(txn.Delete([]byte(k)))
	})
}

func (st *BadgerBackend) GetIterator(prefix string, option ListOptions) (func() (IterItem, bool), func()) {
	reverse, cursor, limit := parseListOptions(option)
	start, end := keyRange([]byte(prefix), reverse, cursor)

	txn := st.txn
	if txn == nil {
		txn = st.DB.NewTransaction(false)
	}

	opts := badger.DefaultIteratorOptions
	opts.Reverse = reverse
	iter := txn.NewIterator(opts)

	var released bool
	release := func() {
		if released {
			return
		}
		released = true
		iter.Close()
		if !st.IsTransaction() {
			txn.Discard()
		}
	}

	inRange := func(key []byte) bool {
		if bytes.Compare(key, start) < 0 {
			return false
		}
		return end == nil || bytes.Compare(key, end) < 0
	}

	var first bool = true
	var n uint64

	return func() (IterItem, bool) {
		if released {
			return IterItem{}, false
		}
		if limit > 0 && n >= limit {
			release()
			return IterItem{}, false
		}

		if first {
			first = false
			switch {
			case !reverse:
				iter.Seek(start)
			case end == nil:
				iter.Rewind()
			default:
				iter.Seek(end)
				if iter.Valid() && bytes.Equal(iter.Item().Key(), end) {
					iter.Next()
				}
			}
		} else {
			iter.Next()
		}

		if !iter.Valid() || !inRange(iter.Item().Key()) {
			release()
			return IterItem{}, false
		}

		item := iter.Item()
		value, err := item.ValueCopy(nil)
		if err != nil {
			release()
			return IterItem{}, false
		}

		n++
		return IterItem{N: n, Key: item.KeyCopy(nil), Value: value}, true
	}, release
}
