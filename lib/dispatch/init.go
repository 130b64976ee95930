package dispatch

import (
	logging "github.com/inconshreveable/log15"

	"boscoin.io/govern/lib/common"
)

var log logging.Logger = logging.New("module", "dispatch")

func init() {
	SetLogging(common.DefaultLogLevel, common.DefaultLogHandler)
}

func SetLogging(level logging.Lvl, handler logging.Handler) {
	log.SetHandler(logging.LvlFilterHandler(level, handler))
}
