package common

import (
	"time"

	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/storage"
)

// TipKey keeps the last block the host has seen. Every state changing
// command runs on the next block of the tip.
const TipKey string = "gt-tip"

func GetTip(st storage.DBBackend) (tip expiration.BlockInfo, err error) {
	err = st.Get(TipKey, &tip)
	return
}

func SaveTip(st storage.DBBackend, tip expiration.BlockInfo) error {
	return st.Set(TipKey, tip)
}

func InitTip(st storage.DBBackend, tip expiration.BlockInfo) error {
	return st.New(TipKey, tip)
}

// NextBlock returns the block for the next operation. `height` of zero means
// the next height of the tip and zero `t` means now. The block never goes
// behind the tip.
func NextBlock(tip expiration.BlockInfo, height uint64, t time.Time) (expiration.BlockInfo, error) {
	if height == 0 {
		height = tip.Height + 1
	}
	if t.IsZero() {
		t = time.Now()
	}

	if height <= tip.Height {
		return tip, errors.New("height must be greater than the tip").
			SetData("height", height).
			SetData("tip", tip.Height)
	}
	if t.Before(tip.Time) {
		return tip, errors.New("time must not be before the tip").
			SetData("time", t).
			SetData("tip", tip.Time)
	}

	return expiration.NewBlockInfo(height, t), nil
}
