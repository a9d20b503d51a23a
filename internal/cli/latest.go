package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/commitlog"
)

// NewLatestCommand creates the latest command.
func NewLatestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "latest",
		Short:         "Print the most recent commit's metadata",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLatest(rootOpts, cmd)
		},
	}
	return cmd
}

func runLatest(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	log, err := openLog(opts)
	if err != nil {
		return err
	}
	defer log.Close()

	entry, err := log.LoadCommitEntry(cmd.Context(), commitlog.Latest)
	if err != nil {
		if commitlog.IsNotFound(err) {
			_ = out.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitFailure, "database has no commits", err)
		}
		_ = out.Error(ErrCodeGeneric, "failed to load commit", err.Error())
		return WrapExitError(ExitCommandError, "failed to load commit", err)
	}

	if opts.Format == "json" {
		return out.Success(historyEntry{
			ID:        entry.ID,
			Message:   entry.Message,
			Timestamp: entry.Timestamp.Format(time.RFC3339Nano),
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n",
		entry.ID, entry.Timestamp.Format(time.RFC3339), entry.Message)
	return nil
}
