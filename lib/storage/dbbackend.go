package storage

// DBBackend is the key/value store used by the governance records. Keys are
// plain strings; values are encoded with msgpack.
type DBBackend interface {
	Has(string) (bool, error)
	Get(string, interface{}) error
	GetRaw(string) ([]byte, error)
	New(string, interface{}) error
	Set(string, interface{}) error
	Remove(string) error

	News(...Item) error
	Sets(...Item) error

	// GetIterator returns the next func and the release func. The items are
	// ordered by key; see ListOptions for the cursor and limit.
	GetIterator(prefix string, option ListOptions) (func() (IterItem, bool), func())

	OpenTransaction() (DBBackend, error)
	IsTransaction() bool
	Commit() error
	Discard() error

	Close() error
}
