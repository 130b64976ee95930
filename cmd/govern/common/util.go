package common

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"boscoin.io/govern/lib/errors"
)

func errorString(err error) string {
	if governError, ok := err.(*errors.Error); ok {
		if len(governError.Data) < 1 {
			return fmt.Sprintf("%s (code=%d)", governError.Message, governError.Code)
		}

		var data []string
		for k, v := range governError.Data {
			data = append(data, fmt.Sprintf("%s=%v", k, v))
		}
		sort.Strings(data)
		return fmt.Sprintf("%s (code=%d %s)", governError.Message, governError.Code, strings.Join(data, " "))
	}

	return err.Error()
}

/**
 * Issue a message on Stderr then exit with an error code
 */
func PrintFlagsError(cmd *cobra.Command, flagName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid '%s'; %s\n\n", flagName, errorString(err))
	}

	cmd.Help()

	os.Exit(1)
}

// PrintError prints the error without the usage; the failed operation is not
// a usage problem.
func PrintError(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorString(err))
	}

	os.Exit(1)
}

// FlagError keeps the name of the flag which has the wrong value.
type FlagError struct {
	Flag string
	Err  error
}

func (f *FlagError) Error() string {
	return fmt.Sprintf("invalid '%s'; %s", f.Flag, errorString(f.Err))
}

func NewFlagError(flag string, err error) *FlagError {
	return &FlagError{Flag: flag, Err: err}
}

// Exit prints `err` the way `PrintFlagsError` or `PrintError` does.
func Exit(cmd *cobra.Command, err error) {
	if flagError, ok := err.(*FlagError); ok {
		PrintFlagsError(cmd, flagError.Flag, flagError.Err)
		return
	}

	PrintError(cmd, err)
}
