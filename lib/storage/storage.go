package storage

import (
	"github.com/vmihailenco/msgpack"
)

type IterItem struct {
	N     uint64
	Key   []byte
	Value []byte
}

type Item struct {
	Key   string
	Value interface{}
}

func Serialize(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func Deserialize(b []byte, v interface{}) error {
	return msgpack.Unmarshal(b, v)
}

// Decode decodes the value of the iterated item.
func (i IterItem) Decode(v interface{}) error {
	return Deserialize(i.Value, v)
}
