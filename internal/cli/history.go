package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/codec"
	"github.com/roach88/strata/internal/commitlog"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Start int
	End   int
}

// historyEntry is the JSON shape for one commit in history output.
type historyEntry struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List commits in the database",
		Long: `List commit metadata in ascending id order.

--start and --end bound the listing like a sequence slice: the range is
half-open, and negative values count back from the end.

Example:
  strata --db params.db history
  strata --db params.db history --start -10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			end := opts.End
			if !cmd.Flags().Changed("end") {
				end = commitlog.ToEnd
			}
			return runHistory(opts, opts.Start, end, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Start, "start", 0, "first history index to list")
	cmd.Flags().IntVar(&opts.End, "end", 0, "history index to stop before (default: end of history)")

	return cmd
}

func runHistory(opts *HistoryOptions, start, end int, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	log, err := openLog(opts.RootOptions)
	if err != nil {
		return err
	}
	defer log.Close()

	entries, err := log.History(cmd.Context(), start, end)
	if err != nil {
		_ = out.Error(ErrCodeGeneric, "failed to read history", err.Error())
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	if opts.Format == "json" {
		rows := make([]historyEntry, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, historyEntry{
				ID:        e.ID,
				Message:   e.Message,
				Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			})
		}
		return out.Success(rows)
	}

	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n",
			e.ID, e.Timestamp.Format(time.RFC3339), e.Message)
	}
	return nil
}

// openLog opens the configured database with an empty type registry.
// Commands read metadata and raw payloads, so no types are needed.
func openLog(opts *RootOptions) (*commitlog.Log, error) {
	log, err := commitlog.Open(opts.Database, codec.NewRegistry())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return log, nil
}
