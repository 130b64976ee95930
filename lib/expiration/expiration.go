package expiration

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack"

	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/errors"
)

type Kind string

const (
	KindNever    Kind = "never"
	KindAtHeight Kind = "at_height"
	KindAtTime   Kind = "at_time"
)

// Expiration is an absolute point, a block height or a block time, after
// which the voting is closed. The zero value never expires.
type Expiration struct {
	Kind   Kind
	Height uint64
	Time   time.Time
}

func Never() Expiration {
	return Expiration{Kind: KindNever}
}

func AtHeight(h uint64) Expiration {
	return Expiration{Kind: KindAtHeight, Height: h}
}

func AtTime(t time.Time) Expiration {
	return Expiration{Kind: KindAtTime, Time: t.UTC()}
}

func (e Expiration) kind() Kind {
	if len(e.Kind) < 1 {
		return KindNever
	}
	return e.Kind
}

func (e Expiration) IsNever() bool {
	return e.kind() == KindNever
}

// IsExpired is true once the block reaches the expiration point.
func (e Expiration) IsExpired(block BlockInfo) bool {
	switch e.kind() {
	case KindAtHeight:
		return block.Height >= e.Height
	case KindAtTime:
		return !block.Time.Before(e.Time)
	default:
		return false
	}
}

// Compare returns -1, 0 or 1 like `bytes.Compare`. A height based and a time
// based expiration are not comparable, so `ok` is false for them. `Never` is
// greater than any other expiration.
func (e Expiration) Compare(other Expiration) (c int, ok bool) {
	a, b := e.kind(), other.kind()

	switch {
	case a == KindNever && b == KindNever:
		return 0, true
	case a == KindNever:
		return 1, true
	case b == KindNever:
		return -1, true
	case a != b:
		return 0, false
	case a == KindAtHeight:
		switch {
		case e.Height < other.Height:
			return -1, true
		case e.Height > other.Height:
			return 1, true
		}
		return 0, true
	default:
		switch {
		case e.Time.Before(other.Time):
			return -1, true
		case e.Time.After(other.Time):
			return 1, true
		}
		return 0, true
	}
}

// Clamp returns the requested expiration bounded by max. The requested
// expiration must be comparable with max.
func Clamp(requested, max Expiration) (Expiration, error) {
	c, ok := requested.Compare(max)
	if !ok {
		return Expiration{}, errors.WrongExpiration.Clone().
			SetData("requested", requested.String()).
			SetData("max", max.String())
	}
	if c > 0 {
		return max, nil
	}

	return requested, nil
}

func (e Expiration) Equal(other Expiration) bool {
	c, ok := e.Compare(other)
	return ok && c == 0
}

func (e Expiration) String() string {
	switch e.kind() {
	case KindAtHeight:
		return fmt.Sprintf("expiration height: %d", e.Height)
	case KindAtTime:
		return fmt.Sprintf("expiration time: %s", common.FormatISO8601(e.Time))
	default:
		return "expiration: never"
	}
}

func (e Expiration) MarshalJSON() ([]byte, error) {
	switch e.kind() {
	case KindAtHeight:
		return json.Marshal(map[Kind]uint64{KindAtHeight: e.Height})
	case KindAtTime:
		return json.Marshal(map[Kind]string{KindAtTime: common.FormatISO8601(e.Time)})
	default:
		return json.Marshal(map[Kind]struct{}{KindNever: {}})
	}
}

func (e *Expiration) UnmarshalJSON(b []byte) error {
	var m map[Kind]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return errors.WrongExpiration.Clone().SetData("expiration", string(b))
	}

	for k, v := range m {
		switch k {
		case KindNever:
			*e = Never()
		case KindAtHeight:
			var h uint64
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			*e = AtHeight(h)
		case KindAtTime:
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return err
			}
			*e = AtTime(t)
		default:
			return errors.WrongExpiration.Clone().SetData("expiration", string(b))
		}
	}

	return nil
}

// EncodeMsgpack stores the time as unix nanoseconds, so the decoded
// expiration is always in UTC.
func (e Expiration) EncodeMsgpack(enc *msgpack.Encoder) error {
	var nano int64
	if e.kind() == KindAtTime {
		nano = e.Time.UnixNano()
	}

	return enc.EncodeMulti(string(e.kind()), e.Height, nano)
}

func (e *Expiration) DecodeMsgpack(dec *msgpack.Decoder) error {
	var kind string
	var height uint64
	var nano int64
	if err := dec.DecodeMulti(&kind, &height, &nano); err != nil {
		return err
	}

	switch Kind(kind) {
	case KindAtHeight:
		*e = AtHeight(height)
	case KindAtTime:
		*e = AtTime(time.Unix(0, nano))
	default:
		*e = Never()
	}

	return nil
}

func (e Expiration) MarshalYAML() (interface{}, error) {
	switch e.kind() {
	case KindAtHeight:
		return map[Kind]uint64{KindAtHeight: e.Height}, nil
	case KindAtTime:
		return map[Kind]string{KindAtTime: common.FormatISO8601(e.Time)}, nil
	default:
		return map[Kind]struct{}{KindNever: {}}, nil
	}
}
