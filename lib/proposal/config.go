package proposal

import (
	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/storage"
	"boscoin.io/govern/lib/threshold"
)

const ConfigKey string = "gc-config"

// Config is set once by instantiation and never changes.
type Config struct {
	Threshold       threshold.Threshold `json:"threshold" yaml:"threshold" msgpack:"threshold"`
	TotalWeight     uint64              `json:"total_weight" yaml:"total_weight" msgpack:"total_weight"`
	MaxVotingPeriod expiration.Duration `json:"max_voting_period" yaml:"max_voting_period" msgpack:"max_voting_period"`
}

func (c Config) String() string {
	return string(common.MustMarshalJSON(c))
}

// Save fails with `StorageRecordAlreadyExists` when the config was already
// saved.
func (c Config) Save(st storage.DBBackend) error {
	return st.New(ConfigKey, c)
}

func ExistsConfig(st storage.DBBackend) (bool, error) {
	return st.Has(ConfigKey)
}

func GetConfig(st storage.DBBackend) (c Config, err error) {
	err = st.Get(ConfigKey, &c)
	return
}
