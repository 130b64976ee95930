package expiration

import (
	"time"

	"boscoin.io/govern/lib/common"
)

// BlockInfo is the block context the host runs an operation in.
type BlockInfo struct {
	Height uint64    `json:"height" yaml:"height"`
	Time   time.Time `json:"time" yaml:"time"`
}

func NewBlockInfo(height uint64, t time.Time) BlockInfo {
	return BlockInfo{Height: height, Time: t.UTC()}
}

// Next returns the block after b, `interval` later.
func (b BlockInfo) Next(interval time.Duration) BlockInfo {
	return NewBlockInfo(b.Height+1, b.Time.Add(interval))
}

func (b BlockInfo) String() string {
	return string(common.MustMarshalJSON(b))
}
