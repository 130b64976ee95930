package cmd

import (
	"io"
	"os"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/govern/cmd/govern/common"
	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/dispatch"
	"boscoin.io/govern/lib/governance"
	"boscoin.io/govern/lib/metrics"
	"boscoin.io/govern/lib/proposal"
	"boscoin.io/govern/lib/storage"
)

var (
	flagConfigFile  string
	flagStorage     string
	flagLogLevel    string
	flagLogOutput   string
	flagFormat      string
	flagMetricsFile string
	flagSender      string
	flagHeight      uint64
	flagTime        string

	config cmdcommon.Config
	output io.Writer = os.Stdout

	log logging.Logger = logging.New("module", "main")
)

var rootCmd = &cobra.Command{
	Use:   "govern",
	Short: "weighted multisig governance",
	PersistentPreRun: func(c *cobra.Command, args []string) {
		if err := parseConfig(c); err != nil {
			cmdcommon.Exit(c, err)
		}
	},
	Run: func(c *cobra.Command, args []string) {
		if len(args) < 1 {
			c.Usage()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfigFile, "config", "", "yaml config file (default \"govern.yml\", env GOVERN_CONFIG)")
	flags.StringVar(&flagStorage, "storage", "", "storage uri, {memory://, file:///path, badger:///path, badger-memory://}")
	flags.StringVar(&flagLogLevel, "log-level", cmdcommon.DefaultLogLevel, "log level, {crit, error, warn, info, debug}")
	flags.StringVar(&flagLogOutput, "log-output", "", "set log output file")
	flags.StringVar(&flagFormat, "format", cmdcommon.DefaultOutputFormat, "output format, {json, prettyjson, yaml}")
	flags.StringVar(&flagMetricsFile, "metrics-file", "", "write metrics in prometheus text format to the file")
	flags.StringVar(&flagSender, "sender", "", "address of the sender")
	flags.Uint64Var(&flagHeight, "height", 0, "block height; default is the next height of the tip for the operations and the tip for the queries")
	flags.StringVar(&flagTime, "time", "", "block time in ISO8601; default is now")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cmdcommon.PrintFlagsError(rootCmd, "", err)
	}
}

func SetArgs(s []string) {
	rootCmd.SetArgs(s)
}

// parseConfig overlays the changed flags over the loaded config and sets
// the logging.
func parseConfig(c *cobra.Command) (err error) {
	if config, err = cmdcommon.LoadConfig(flagConfigFile); err != nil {
		return cmdcommon.NewFlagError("--config", err)
	}

	flags := c.Flags()
	if flags.Changed("storage") {
		config.Storage = flagStorage
	}
	if flags.Changed("log-level") {
		config.LogLevel = flagLogLevel
	}
	if flags.Changed("log-output") {
		config.LogOutput = flagLogOutput
	}
	if flags.Changed("format") {
		config.Format = flagFormat
	}
	if flags.Changed("metrics-file") {
		config.MetricsFile = flagMetricsFile
	}
	if flags.Changed("sender") {
		config.Sender = flagSender
	}

	if _, found := cmdcommon.Encoders[config.Format]; !found {
		return cmdcommon.NewFlagError("--format", errors.Errorf("unknown format, %q", config.Format))
	}

	var logLevel logging.Lvl
	if logLevel, err = logging.LvlFromString(config.LogLevel); err != nil {
		return cmdcommon.NewFlagError("--log-level", err)
	}

	var logHandler logging.Handler
	if len(config.LogOutput) > 0 {
		if logHandler, err = logging.FileHandler(config.LogOutput, common.JSONFormat()); err != nil {
			return cmdcommon.NewFlagError("--log-output", err)
		}
	} else {
		var formatter logging.Format
		if isatty.IsTerminal(os.Stderr.Fd()) {
			formatter = logging.TerminalFormat()
		} else {
			formatter = common.JSONFormat()
		}
		logHandler = logging.StreamHandler(os.Stderr, formatter)
	}

	setLogging(logLevel, logHandler)

	log.Debug(
		"parsed config",
		"storage", config.Storage,
		"log-level", config.LogLevel,
		"log-output", config.LogOutput,
		"format", config.Format,
		"metrics-file", config.MetricsFile,
		"sender", config.Sender,
	)

	return nil
}

func setLogging(level logging.Lvl, handler logging.Handler) {
	log.SetHandler(logging.LvlFilterHandler(level, handler))
	governance.SetLogging(level, handler)
	proposal.SetLogging(level, handler)
	dispatch.SetLogging(level, handler)
}

func parseBlockTime() (t time.Time, err error) {
	if len(flagTime) < 1 {
		return
	}

	if t, err = common.ParseISO8601(flagTime); err != nil {
		err = cmdcommon.NewFlagError("--time", err)
	}
	return
}

func openStorage() (storage.DBBackend, error) {
	storageConfig, err := storage.NewConfigFromString(config.Storage)
	if err != nil {
		return nil, cmdcommon.NewFlagError("--storage", err)
	}

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to initialize storage, %q", storageConfig)
	}

	return st, nil
}

// session is the opened storage with the engine over it.
type session struct {
	st       storage.DBBackend
	engine   *governance.Engine
	registry *stdprometheus.Registry
}

func openSession() (*session, error) {
	st, err := openStorage()
	if err != nil {
		return nil, err
	}

	engine, err := governance.NewEngine(st, dispatch.NewOutboxDispatcher())
	if err != nil {
		st.Close()
		return nil, err
	}

	s := &session{st: st, engine: engine}
	if len(config.MetricsFile) > 0 {
		s.registry = stdprometheus.NewRegistry()
		metrics.InitPrometheusMetrics(s.registry)
		metrics.SetVersion()
		metrics.Governance.Observe(engine.Observer())
	}

	return s, nil
}

func (s *session) Close() error {
	defer s.st.Close()

	if s.registry == nil {
		return nil
	}

	return metrics.WriteTextfile(config.MetricsFile, s.registry)
}

// finish closes the session and keeps the first error.
func (s *session) finish(err *error) {
	if cerr := s.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func printResult(v interface{}) error {
	return cmdcommon.Encode(config.Format, output, v)
}
