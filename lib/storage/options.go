package storage

import (
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"
)

// ListOptions controls the iteration. The cursor is a full key and is
// exclusive: the forward iteration starts after it and the reverse iteration
// starts before it. Limit 0 means no limit.
type ListOptions interface {
	Reverse() bool
	SetReverse(bool) ListOptions
	Cursor() []byte
	SetCursor([]byte) ListOptions
	Limit() uint64
	SetLimit(uint64) ListOptions
}

type DefaultListOptions struct {
	reverse bool
	cursor  []byte
	limit   uint64
}

func NewDefaultListOptions(reverse bool, cursor []byte, limit uint64) *DefaultListOptions {
	return &DefaultListOptions{
		reverse: reverse,
		cursor:  cursor,
		limit:   limit,
	}
}

func (o DefaultListOptions) Reverse() bool {
	return o.reverse
}

func (o *DefaultListOptions) SetReverse(r bool) ListOptions {
	o.reverse = r
	return o
}

func (o DefaultListOptions) Cursor() []byte {
	return o.cursor
}

func (o *DefaultListOptions) SetCursor(c []byte) ListOptions {
	o.cursor = c
	return o
}

func (o DefaultListOptions) Limit() uint64 {
	return o.limit
}

func (o *DefaultListOptions) SetLimit(l uint64) ListOptions {
	o.limit = l
	return o
}

func parseListOptions(option ListOptions) (reverse bool, cursor []byte, limit uint64) {
	if option == nil {
		return
	}
	return option.Reverse(), option.Cursor(), option.Limit()
}

// keyRange returns the [start, limit) range of the keys under prefix,
// narrowed by the exclusive cursor.
func keyRange(prefix []byte, reverse bool, cursor []byte) (start, limit []byte) {
	r := leveldbUtil.BytesPrefix(prefix)
	start, limit = r.Start, r.Limit

	if len(cursor) < 1 {
		return
	}

	if reverse {
		if limit == nil || string(cursor) < string(limit) {
			limit = cursor
		}
	} else {
		next := make([]byte, len(cursor)+1)
		copy(next, cursor)
		if string(next) > string(start) {
			start = next
		}
	}

	return
}
