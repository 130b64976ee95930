package proposal

import (
	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/storage"
)

const VoterPrefix string = "gv-"

type Voter struct {
	Addr   string `json:"addr" yaml:"addr" msgpack:"addr"`
	Weight uint64 `json:"weight" yaml:"weight" msgpack:"weight"`
}

func (v Voter) String() string {
	return string(common.MustMarshalJSON(v))
}

func GetVoterKey(addr string) string {
	return VoterPrefix + addr
}

// Save stores the weight of the voter; a voter is stored only once.
func (v Voter) Save(st storage.DBBackend) error {
	return st.New(GetVoterKey(v.Addr), v.Weight)
}

// GetVoterWeight fails with `StorageRecordDoesNotExist` for unknown voter.
func GetVoterWeight(st storage.DBBackend, addr string) (weight uint64, err error) {
	err = st.Get(GetVoterKey(addr), &weight)
	return
}

// GetVoters iterates the voters ordered by address, after the `startAfter`
// address if given.
func GetVoters(st storage.DBBackend, startAfter string, limit uint64) (func() (Voter, bool, error), func()) {
	var cursor []byte
	if len(startAfter) > 0 {
		cursor = []byte(GetVoterKey(startAfter))
	}

	option := storage.NewDefaultListOptions(false, cursor, limit)
	iterFunc, closeFunc := st.GetIterator(VoterPrefix, option)

	return (func() (Voter, bool, error) {
			item, hasNext := iterFunc()
			if !hasNext {
				return Voter{}, false, nil
			}

			v := Voter{Addr: string(item.Key[len(VoterPrefix):])}
			if err := item.Decode(&v.Weight); err != nil {
				closeFunc()
				return Voter{}, false, errors.StorageCoreError.Clone().
					SetData("voter", v.Addr).
					SetData("error", err.Error())
			}

			return v, true, nil
		}), (func() {
			closeFunc()
		})
}
