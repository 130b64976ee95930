package cmd

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	cmdcommon "boscoin.io/govern/cmd/govern/common"
	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/proposal"
	"boscoin.io/govern/lib/threshold"
)

// Genesis is the yaml file of `govern init`:
//
//	voters:
//	  - addr: alice
//	    weight: 3
//	threshold:
//	  absolute_count:
//	    weight: 5
//	max_voting_period:
//	  height: 100
//	height: 1
type Genesis struct {
	Voters          []proposal.Voter    `yaml:"voters"`
	Threshold       threshold.Threshold `yaml:"threshold"`
	MaxVotingPeriod expiration.Duration `yaml:"max_voting_period"`
	Height          uint64              `yaml:"height"`
	Time            string              `yaml:"time"`
}

func ReadGenesis(path string) (genesis Genesis, err error) {
	var b []byte
	if b, err = ioutil.ReadFile(path); err != nil {
		err = errors.Wrapf(err, "failed to read genesis file, %q", path)
		return
	}

	if err = yaml.UnmarshalStrict(b, &genesis); err != nil {
		err = errors.Wrapf(err, "failed to parse genesis file, %q", path)
		return
	}

	return
}

// Block is the first tip; the `time` of the file or now.
func (g Genesis) Block() (expiration.BlockInfo, error) {
	t := time.Now()
	if len(g.Time) > 0 {
		var err error
		if t, err = common.ParseISO8601(g.Time); err != nil {
			return expiration.BlockInfo{}, errors.Wrapf(err, "invalid genesis time, %q", g.Time)
		}
	}

	return expiration.NewBlockInfo(g.Height, t), nil
}

func init() {
	genesisCmd := &cobra.Command{
		Use:   "init <genesis file>",
		Short: "instantiate governance with voters and threshold",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			if err := runGenesis(args[0]); err != nil {
				cmdcommon.Exit(c, err)
			}
		},
	}

	rootCmd.AddCommand(genesisCmd)
}

func runGenesis(path string) (err error) {
	var genesis Genesis
	if genesis, err = ReadGenesis(path); err != nil {
		return cmdcommon.NewFlagError("<genesis file>", err)
	}

	block, err := genesis.Block()
	if err != nil {
		return cmdcommon.NewFlagError("<genesis file>", err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.finish(&err)

	instantiated, err := s.engine.Instantiate(genesis.Voters, genesis.Threshold, genesis.MaxVotingPeriod)
	if err != nil {
		return err
	}

	if err = cmdcommon.InitTip(s.st, block); err != nil {
		return err
	}

	log.Info("governance instantiated", "total_weight", instantiated.TotalWeight, "block", block)

	return printResult(instantiated)
}
