package expiration

import (
	"encoding/json"
	"fmt"
	"time"

	"boscoin.io/govern/lib/errors"
)

// Duration is a voting period, measured either in blocks or in time. Exactly
// one of `Height` and `Time` is set.
type Duration struct {
	Height uint64        `json:"height,omitempty" yaml:"height,omitempty"`
	Time   time.Duration `json:"time,omitempty" yaml:"time,omitempty"`
}

func HeightDuration(h uint64) Duration {
	return Duration{Height: h}
}

func TimeDuration(d time.Duration) Duration {
	return Duration{Time: d}
}

func (d Duration) IsHeight() bool {
	return d.Height > 0 && d.Time == 0
}

func (d Duration) IsTime() bool {
	return d.Time > 0 && d.Height == 0
}

func (d Duration) Validate() error {
	if d.IsHeight() || d.IsTime() {
		return nil
	}

	return errors.InvalidDuration.Clone().SetData("duration", d.String())
}

// After returns the expiration `d` after the block.
func (d Duration) After(block BlockInfo) Expiration {
	if d.IsHeight() {
		return AtHeight(block.Height + d.Height)
	}

	return AtTime(block.Time.Add(d.Time))
}

func (d Duration) String() string {
	switch {
	case d.IsHeight():
		return fmt.Sprintf("height(%d)", d.Height)
	case d.IsTime():
		return fmt.Sprintf("time(%s)", d.Time)
	default:
		return fmt.Sprintf("invalid(height=%d time=%s)", d.Height, d.Time)
	}
}

type jsonDuration struct {
	Height uint64 `json:"height,omitempty"`
	Time   string `json:"time,omitempty"`
}

func (d Duration) MarshalJSON() ([]byte, error) {
	j := jsonDuration{Height: d.Height}
	if d.Time != 0 {
		j.Time = d.Time.String()
	}

	return json.Marshal(j)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var j jsonDuration
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	var t time.Duration
	if len(j.Time) > 0 {
		var err error
		if t, err = time.ParseDuration(j.Time); err != nil {
			return errors.InvalidDuration.Clone().SetData("time", j.Time)
		}
	}

	*d = Duration{Height: j.Height, Time: t}
	return nil
}
