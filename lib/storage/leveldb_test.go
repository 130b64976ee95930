package storage

import (
	"fmt"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/govern/lib/errors"
)

func testBackends(t *testing.T, fn func(*testing.T, DBBackend)) {
	backends := map[string]func() (DBBackend, error){
		"leveldb": func() (DBBackend, error) { return NewTestMemoryLevelDBBackend() },
		"badger":  func() (DBBackend, error) { return NewTestMemoryBadgerBackend() },
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			st, err := open()
			require.NoError(t, err)
			defer st.Close()

			fn(t, st)
		})
	}
}

func TestLevelDBBackendInitFileStorage(t *testing.T) {
	path, _ := ioutil.TempDir("", "govern")
	defer CleanDB(path)

	config, err := NewConfigFromString("file://" + path)
	require.NoError(t, err)

	st, err := NewStorage(config)
	require.NoError(t, err)
	require.IsType(t, &LevelDBBackend{}, st)
	require.NoError(t, st.New("showme", "findme"))
	require.NoError(t, st.Close())

	st, err = NewStorage(config)
	require.NoError(t, err)
	defer st.Close()

	var fetched string
	require.NoError(t, st.Get("showme", &fetched))
	require.Equal(t, "findme", fetched)
}

func TestBadgerBackendInitFileStorage(t *testing.T) {
	path, _ := ioutil.TempDir("", "govern")
	defer CleanDB(path)

	config, err := NewConfigFromString("badger://" + path)
	require.NoError(t, err)

	st, err := NewStorage(config)
	require.NoError(t, err)
	require.IsType(t, &BadgerBackend{}, st)
	defer st.Close()

	require.NoError(t, st.New("showme", uint64(9)))

	var fetched uint64
	require.NoError(t, st.Get("showme", &fetched))
	require.Equal(t, uint64(9), fetched)
}

func TestBackendNew(t *testing.T) {
	testBackends(t, func(t *testing.T, st DBBackend) {
		key := "showme"
		input := map[string]string{
			"90": "99",
			"91": "91",
		}
		require.NoError(t, st.New(key, input))

		fetched := map[string]string{}
		require.NoError(t, st.Get(key, &fetched))
		require.Equal(t, input, fetched)

		err := st.New(key, input)
		require.ErrorIs(t, err, errors.StorageRecordAlreadyExists)
	})
}

func TestBackendSetAndRemove(t *testing.T) {
	testBackends(t, func(t *testing.T, st DBBackend) {
		err := st.Set("killme", "1")
		require.ErrorIs(t, err, errors.StorageRecordDoesNotExist)

		require.NoError(t, st.New("killme", "1"))
		require.NoError(t, st.Set("killme", "2"))

		var fetched string
		require.NoError(t, st.Get("killme", &fetched))
		require.Equal(t, "2", fetched)

		require.NoError(t, st.Remove("killme"))
		exists, err := st.Has("killme")
		require.NoError(t, err)
		require.False(t, exists)

		require.ErrorIs(t, st.Remove("killme"), errors.StorageRecordDoesNotExist)
		require.ErrorIs(t, st.Get("killme", &fetched), errors.StorageRecordDoesNotExist)
	})
}

func TestBackendNewsAndSets(t *testing.T) {
	testBackends(t, func(t *testing.T, st DBBackend) {
		require.NoError(t, st.News(Item{"a", 1}, Item{"b", 2}))

		err := st.News(Item{"c", 3}, Item{"a", 4})
		require.ErrorIs(t, err, errors.StorageRecordAlreadyExists)
		exists, _ := st.Has("c")
		require.False(t, exists)

		err = st.Sets(Item{"a", 5}, Item{"d", 6})
		require.ErrorIs(t, err, errors.StorageRecordDoesNotExist)

		require.NoError(t, st.Sets(Item{"a", 7}, Item{"b", 8}))
		var fetched int
		require.NoError(t, st.Get("b", &fetched))
		require.Equal(t, 8, fetched)
	})
}

func TestBackendTransaction(t *testing.T) {
	testBackends(t, func(t *testing.T, st DBBackend) {
		require.False(t, st.IsTransaction())
		require.Error(t, st.Commit())

		ts, err := st.OpenTransaction()
		require.NoError(t, err)
		require.True(t, ts.IsTransaction())
		require.NoError(t, ts.New("discarded", 1))

		exists, _ := ts.Has("discarded")
		require.True(t, exists)
		require.NoError(t, ts.Discard())

		exists, _ = st.Has("discarded")
		require.False(t, exists)

		ts, err = st.OpenTransaction()
		require.NoError(t, err)
		require.NoError(t, ts.New("committed", 1))
		require.NoError(t, ts.Commit())

		exists, _ = st.Has("committed")
		require.True(t, exists)
	})
}

func collectKeys(st DBBackend, prefix string, option ListOptions) (keys []string) {
	iterFunc, closeFunc := st.GetIterator(prefix, option)
	defer closeFunc()

	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}
		keys = append(keys, string(item.Key))
	}

	return
}

func TestBackendIterator(t *testing.T) {
	testBackends(t, func(t *testing.T, st DBBackend) {
		var expected []string
		for i := 0; i < 5; i++ {
			key := fmt.Sprintf("p-%02d", i)
			expected = append(expected, key)
			require.NoError(t, st.New(key, i))
		}
		require.NoError(t, st.New("o-00", 0))
		require.NoError(t, st.New("q-00", 0))

		require.Equal(t, expected, collectKeys(st, "p-", nil))
		require.Equal(
			t,
			[]string{"p-04", "p-03", "p-02", "p-01", "p-00"},
			collectKeys(st, "p-", NewDefaultListOptions(true, nil, 0)),
		)

		// cursor is exclusive
		require.Equal(
			t,
			[]string{"p-02", "p-03"},
			collectKeys(st, "p-", NewDefaultListOptions(false, []byte("p-01"), 2)),
		)
		require.Equal(
			t,
			[]string{"p-01", "p-00"},
			collectKeys(st, "p-", NewDefaultListOptions(true, []byte("p-02"), 10)),
		)
		require.Empty(t, collectKeys(st, "p-", NewDefaultListOptions(false, []byte("p-04"), 10)))
		require.Empty(t, collectKeys(st, "p-", NewDefaultListOptions(true, []byte("p-00"), 10)))
		require.Empty(t, collectKeys(st, "r-", nil))
	})
}

func TestBackendIteratorDecode(t *testing.T) {
	testBackends(t, func(t *testing.T, st DBBackend) {
		require.NoError(t, st.New("v-a", uint64(3)))

		iterFunc, closeFunc := st.GetIterator("v-", nil)
		defer closeFunc()

		item, hasNext := iterFunc()
		require.True(t, hasNext)
		require.Equal(t, uint64(1), item.N)

		var weight uint64
		require.NoError(t, item.Decode(&weight))
		require.Equal(t, uint64(3), weight)

		_, hasNext = iterFunc()
		require.False(t, hasNext)
	})
}

func TestNextSequence(t *testing.T) {
	testBackends(t, func(t *testing.T, st DBBackend) {
		last, err := LastSequence(st, "seq")
		require.NoError(t, err)
		require.Equal(t, uint64(0), last)

		for i := uint64(1); i <= 3; i++ {
			n, err := NextSequence(st, "seq")
			require.NoError(t, err)
			require.Equal(t, i, n)
		}

		last, err = LastSequence(st, "seq")
		require.NoError(t, err)
		require.Equal(t, uint64(3), last)
	})
}

func TestNewConfigFromString(t *testing.T) {
	cases := map[string]Config{
		"memory://":                 {Scheme: SchemeMemory},
		"badger-memory://":          {Scheme: SchemeBadgerMemory},
		"file:///tmp/govern":        {Scheme: SchemeFile, Path: "/tmp/govern"},
		"badger:///var/lib/govern":  {Scheme: SchemeBadger, Path: "/var/lib/govern"},
		"file://./relative/db/path": {Scheme: SchemeFile, Path: "./relative/db/path"},
	}

	for uri, expected := range cases {
		config, err := NewConfigFromString(uri)
		require.NoError(t, err, uri)
		require.Equal(t, expected, *config, uri)
	}

	for _, uri := range []string{"redis://localhost", "file://", "::"} {
		_, err := NewConfigFromString(uri)
		require.ErrorIs(t, err, errors.StorageUnknownScheme, uri)
	}
}
