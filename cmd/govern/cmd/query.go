package cmd

import (
	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/govern/cmd/govern/common"
	"boscoin.io/govern/lib/dispatch"
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/governance"
)

var (
	flagStartAfter  string
	flagStartBefore uint64
	flagLimit       uint64
	flagReverse     bool
)

type OutboxListResponse struct {
	Messages []dispatch.Message `json:"messages" yaml:"messages"`
}

type queryFunc func(*governance.Engine, []string) (interface{}, error)

func newQueryCmd(use, short string, args cobra.PositionalArgs, fn queryFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		Run: func(c *cobra.Command, args []string) {
			if err := runQuery(fn, args); err != nil {
				cmdcommon.Exit(c, err)
			}
		},
	}
}

func init() {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "query governance",
		Run: func(c *cobra.Command, args []string) {
			c.Usage()
		},
	}

	thresholdCmd := newQueryCmd("threshold", "threshold with the total weight", cobra.NoArgs, queryThreshold)
	proposalCmd := newQueryCmd("proposal <proposal id>", "proposal with the status at the block", cobra.ExactArgs(1), queryProposal)
	proposalsCmd := newQueryCmd("proposals", "list proposals", cobra.NoArgs, queryProposals)
	ballotCmd := newQueryCmd("ballot <proposal id> <voter>", "ballot of voter", cobra.ExactArgs(2), queryBallot)
	ballotsCmd := newQueryCmd("ballots <proposal id>", "list ballots of proposal by voter", cobra.ExactArgs(1), queryBallots)
	voterCmd := newQueryCmd("voter <address>", "weight of voter", cobra.ExactArgs(1), queryVoter)
	votersCmd := newQueryCmd("voters", "list voters", cobra.NoArgs, queryVoters)
	outboxCmd := newQueryCmd("outbox [<proposal id>]", "dispatched messages of the executed proposals", cobra.MaximumNArgs(1), queryOutbox)

	proposalsCmd.Flags().StringVar(&flagStartAfter, "start-after", "", "list after the proposal id")
	proposalsCmd.Flags().Uint64Var(&flagStartBefore, "start-before", 0, "list before the proposal id with --reverse")
	proposalsCmd.Flags().BoolVar(&flagReverse, "reverse", false, "list in descending id order")
	for _, c := range []*cobra.Command{proposalsCmd, ballotsCmd, votersCmd, outboxCmd} {
		c.Flags().Uint64Var(&flagLimit, "limit", 0, "number of items; default 10, at most 30")
	}
	for _, c := range []*cobra.Command{ballotsCmd, votersCmd, outboxCmd} {
		c.Flags().StringVar(&flagStartAfter, "start-after", "", "list after the cursor")
	}

	queryCmd.AddCommand(
		thresholdCmd,
		proposalCmd,
		proposalsCmd,
		ballotCmd,
		ballotsCmd,
		voterCmd,
		votersCmd,
		outboxCmd,
	)
	rootCmd.AddCommand(queryCmd)
}

func runQuery(fn queryFunc, args []string) (err error) {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.finish(&err)

	var result interface{}
	if result, err = fn(s.engine, args); err != nil {
		return err
	}

	return printResult(result)
}

// queryEnv is at the tip unless `--height` or `--time` is given.
func queryEnv(engine *governance.Engine) (env governance.Env, err error) {
	var block expiration.BlockInfo
	if block, err = cmdcommon.GetTip(engine.Storage()); err != nil {
		if !errors.StorageRecordDoesNotExist.Is(err) {
			return
		}
		err = nil
	}

	if flagHeight > 0 {
		block.Height = flagHeight
	}

	t, err := parseBlockTime()
	if err != nil {
		return
	} else if !t.IsZero() {
		block.Time = t
	}

	return governance.NewEnv(expiration.NewBlockInfo(block.Height, block.Time), config.Sender), nil
}

func parseCursor(flag string) (uint64, error) {
	if len(flagStartAfter) < 1 {
		return 0, nil
	}

	id, err := parseProposalID(flagStartAfter)
	if err != nil {
		return 0, cmdcommon.NewFlagError(flag, err)
	}
	return id, nil
}

func queryThreshold(engine *governance.Engine, args []string) (interface{}, error) {
	return engine.Threshold()
}

func queryProposal(engine *governance.Engine, args []string) (interface{}, error) {
	id, err := parseProposalID(args[0])
	if err != nil {
		return nil, err
	}

	env, err := queryEnv(engine)
	if err != nil {
		return nil, err
	}

	return engine.Proposal(env, id)
}

func queryProposals(engine *governance.Engine, args []string) (interface{}, error) {
	env, err := queryEnv(engine)
	if err != nil {
		return nil, err
	}

	if flagReverse {
		return engine.ReverseProposals(env, flagStartBefore, flagLimit)
	}

	startAfter, err := parseCursor("--start-after")
	if err != nil {
		return nil, err
	}

	return engine.ListProposals(env, startAfter, flagLimit)
}

func queryBallot(engine *governance.Engine, args []string) (interface{}, error) {
	id, err := parseProposalID(args[0])
	if err != nil {
		return nil, err
	}

	return engine.Ballot(id, args[1])
}

func queryBallots(engine *governance.Engine, args []string) (interface{}, error) {
	id, err := parseProposalID(args[0])
	if err != nil {
		return nil, err
	}

	return engine.ListBallots(id, flagStartAfter, flagLimit)
}

func queryVoter(engine *governance.Engine, args []string) (interface{}, error) {
	return engine.Voter(args[0])
}

func queryVoters(engine *governance.Engine, args []string) (interface{}, error) {
	return engine.ListVoters(flagStartAfter, flagLimit)
}

func queryOutbox(engine *governance.Engine, args []string) (interface{}, error) {
	if len(args) > 0 {
		id, err := parseProposalID(args[0])
		if err != nil {
			return nil, err
		}

		return dispatch.GetMessage(engine.Storage(), id)
	}

	startAfter, err := parseCursor("--start-after")
	if err != nil {
		return nil, err
	}

	iterFunc, closeFunc := dispatch.GetMessages(engine.Storage(), startAfter, governance.Limit(flagLimit))
	defer closeFunc()

	r := OutboxListResponse{Messages: []dispatch.Message{}}
	for {
		m, hasNext, err := iterFunc()
		if err != nil {
			return nil, err
		} else if !hasNext {
			break
		}
		r.Messages = append(r.Messages, m)
	}

	return r, nil
}
