package cmd

import (
	"io/ioutil"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/govern/cmd/govern/common"
	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/governance"
	"boscoin.io/govern/lib/storage"
	"boscoin.io/govern/lib/voting"
)

var (
	flagTitle         string
	flagDescription   string
	flagPayload       string
	flagPayloadFile   string
	flagExpiresHeight uint64
	flagExpiresTime   string
	flagExpiresNever  bool
)

func init() {
	proposeCmd := &cobra.Command{
		Use:   "propose",
		Short: "create new proposal with the sender's yes vote",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			if err := runPropose(); err != nil {
				cmdcommon.Exit(c, err)
			}
		},
	}
	proposeCmd.Flags().StringVar(&flagTitle, "title", "", "title of proposal")
	proposeCmd.Flags().StringVar(&flagDescription, "description", "", "description of proposal")
	proposeCmd.Flags().StringVar(&flagPayload, "payload", "", "payload to dispatch when executed")
	proposeCmd.Flags().StringVar(&flagPayloadFile, "payload-file", "", "read the payload from file")
	proposeCmd.Flags().Uint64Var(&flagExpiresHeight, "expires-height", 0, "expires at height")
	proposeCmd.Flags().StringVar(&flagExpiresTime, "expires-time", "", "expires at time in ISO8601")
	proposeCmd.Flags().BoolVar(&flagExpiresNever, "expires-never", false, "request no expiration; cut to the max voting period")

	voteCmd := &cobra.Command{
		Use:   "vote <proposal id> <yes|no|abstain|veto>",
		Short: "cast the sender's ballot",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			if err := runVote(args[0], args[1]); err != nil {
				cmdcommon.Exit(c, err)
			}
		},
	}

	executeCmd := &cobra.Command{
		Use:   "execute <proposal id>",
		Short: "execute passed proposal and dispatch the payload to the outbox",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			if err := runExecute(args[0]); err != nil {
				cmdcommon.Exit(c, err)
			}
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close <proposal id>",
		Short: "close expired proposal which did not pass",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			if err := runClose(args[0]); err != nil {
				cmdcommon.Exit(c, err)
			}
		},
	}

	rootCmd.AddCommand(proposeCmd, voteCmd, executeCmd, closeCmd)
}

func parseProposalID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, cmdcommon.NewFlagError("<proposal id>", err)
	}
	return id, nil
}

func parseExpires() (*expiration.Expiration, error) {
	var n int
	var expires expiration.Expiration
	if flagExpiresHeight > 0 {
		n++
		expires = expiration.AtHeight(flagExpiresHeight)
	}
	if len(flagExpiresTime) > 0 {
		n++
		t, err := common.ParseISO8601(flagExpiresTime)
		if err != nil {
			return nil, cmdcommon.NewFlagError("--expires-time", err)
		}
		expires = expiration.AtTime(t)
	}
	if flagExpiresNever {
		n++
		expires = expiration.Never()
	}

	switch n {
	case 0:
		return nil, nil
	case 1:
		return &expires, nil
	default:
		return nil, cmdcommon.NewFlagError(
			"--expires-*",
			errors.New("only one of --expires-height, --expires-time and --expires-never can be given"),
		)
	}
}

func parsePayload() ([]byte, error) {
	if len(flagPayloadFile) < 1 {
		return []byte(flagPayload), nil
	}
	if len(flagPayload) > 0 {
		return nil, cmdcommon.NewFlagError("--payload-file", errors.New("--payload is also given"))
	}

	b, err := ioutil.ReadFile(flagPayloadFile)
	if err != nil {
		return nil, cmdcommon.NewFlagError("--payload-file", err)
	}
	return b, nil
}

// operate runs `fn` on the next block of the tip. The tip moves to the block
// in the same transaction as the operation.
func operate(fn func(*governance.Engine, governance.Env) (governance.Result, error)) (err error) {
	if len(config.Sender) < 1 {
		return cmdcommon.NewFlagError("--sender", errors.New("sender must be given"))
	}

	var t time.Time
	if t, err = parseBlockTime(); err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.finish(&err)

	tip, err := cmdcommon.GetTip(s.st)
	if err != nil {
		return errors.Wrap(err, "failed to load tip; run `init` first")
	}

	block, err := cmdcommon.NextBlock(tip, flagHeight, t)
	if err != nil {
		return cmdcommon.NewFlagError("--height", err)
	}

	s.engine.AddCommitHook(func(ts storage.DBBackend, env governance.Env, _ governance.Result) error {
		return cmdcommon.SaveTip(ts, env.Block)
	})

	result, err := fn(s.engine, governance.NewEnv(block, config.Sender))
	if err != nil {
		return err
	}

	log.Info("operation done", "result", result, "block", block)

	return printResult(result.Attributes())
}

func runPropose() error {
	expires, err := parseExpires()
	if err != nil {
		return err
	}

	payload, err := parsePayload()
	if err != nil {
		return err
	}

	return operate(func(engine *governance.Engine, env governance.Env) (governance.Result, error) {
		return engine.Propose(env, flagTitle, flagDescription, payload, expires)
	})
}

func runVote(idString, voteString string) error {
	id, err := parseProposalID(idString)
	if err != nil {
		return err
	}

	vote, err := voting.ParseVote(voteString)
	if err != nil {
		return cmdcommon.NewFlagError("<vote>", err)
	}

	return operate(func(engine *governance.Engine, env governance.Env) (governance.Result, error) {
		return engine.Vote(env, id, vote)
	})
}

func runExecute(idString string) error {
	id, err := parseProposalID(idString)
	if err != nil {
		return err
	}

	return operate(func(engine *governance.Engine, env governance.Env) (governance.Result, error) {
		return engine.Execute(env, id)
	})
}

func runClose(idString string) error {
	id, err := parseProposalID(idString)
	if err != nil {
		return err
	}

	return operate(func(engine *governance.Engine, env governance.Env) (governance.Result, error) {
		return engine.Close(env, id)
	})
}
