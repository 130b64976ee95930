package storage

import (
	"boscoin.io/govern/lib/errors"
)

// NextSequence increments the counter stored under key and returns the new
// value; the first value is 1. Run it inside a transaction, so the counter
// moves together with the record it numbers.
func NextSequence(st DBBackend, key string) (uint64, error) {
	var last uint64
	err := st.Get(key, &last)
	switch {
	case err == nil:
		last++
		return last, st.Set(key, last)
	case errors.StorageRecordDoesNotExist.Is(err):
		return 1, st.New(key, uint64(1))
	default:
		return 0, err
	}
}

// LastSequence returns the current value of the counter, 0 when it was
// never incremented.
func LastSequence(st DBBackend, key string) (uint64, error) {
	var last uint64
	if err := st.Get(key, &last); err != nil {
		if errors.StorageRecordDoesNotExist.Is(err) {
			return 0, nil
		}
		return 0, err
	}

	return last, nil
}
