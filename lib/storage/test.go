package storage

import "os"

func CleanDB(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}

	os.RemoveAll(path)
}

func NewTestMemoryLevelDBBackend() (st *LevelDBBackend, err error) {
	st = &LevelDBBackend{}
	err = st.Init(&Config{Scheme: SchemeMemory})
	return
}

func NewTestMemoryBadgerBackend() (st *BadgerBackend, err error) {
	st = &BadgerBackend{}
	err = st.Init(&Config{Scheme: SchemeBadgerMemory})
	return
}

// NewTestStorage returns the in-memory leveldb backend.
func NewTestStorage() DBBackend {
	st, err := NewTestMemoryLevelDBBackend()
	if err != nil {
		panic(err)
	}

	return st
}
