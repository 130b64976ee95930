package threshold

import (
	"encoding/json"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack"
)

// Decimal is an exact fraction like "0.51". It is written as string in
// json, yaml and msgpack.
type Decimal struct {
	d decimal.Decimal
}

var (
	zero = Decimal{d: decimal.Zero}
	one  = Decimal{d: decimal.New(1, 0)}
)

func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{d: d}
}

func MustParseDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}

	return Decimal{d: d}, nil
}

// Percent returns `p` percent as fraction.
func Percent(p int64) Decimal {
	return Decimal{d: decimal.New(p, -2)}
}

// IsFraction is true for 0 < d <= 1.
func (d Decimal) IsFraction() bool {
	return d.d.GreaterThan(zero.d) && d.d.LessThanOrEqual(one.d)
}

// MulCeil returns ceil(d * weight).
func (d Decimal) MulCeil(weight uint64) uint64 {
	w := decimal.NewFromBigInt(new(big.Int).SetUint64(weight), 0)
	product := d.d.Mul(w).Ceil()
	if product.Sign() <= 0 {
		return 0
	}

	return product.BigInt().Uint64()
}

func (d Decimal) Equal(other Decimal) bool {
	return d.d.Equal(other.d)
}

func (d Decimal) String() string {
	return d.d.String()
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// plain json number
		s = string(b)
	}

	parsed, err := ParseDecimal(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

func (d Decimal) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Decimal) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	parsed, err := ParseDecimal(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

func (d Decimal) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(d.String())
}

func (d *Decimal) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}

	parsed, err := ParseDecimal(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
