package common

import (
	"encoding/binary"
	"encoding/json"
	"os"
)

const MaxUintEncodeByte = 8

func GetENVValue(key, defaultValue string) (v string) {
	var found bool
	if v, found = os.LookupEnv(key); !found {
		return defaultValue
	}

	return
}

func MustMarshalJSON(o interface{}) []byte {
	b, _ := json.Marshal(o)
	return b
}

// EncodeUint64ToByteSlice encodes i in big endian, so the byte order of the
// encoded values follows the numeric order.
func EncodeUint64ToByteSlice(i uint64) [MaxUintEncodeByte]byte {
	var b [MaxUintEncodeByte]byte
	binary.BigEndian.PutUint64(b[:], i)
	return b
}

func DecodeUint64FromByteSlice(b []byte) uint64 {
	if len(b) < MaxUintEncodeByte {
		return 0
	}
	return binary.BigEndian.Uint64(b[:MaxUintEncodeByte])
}
