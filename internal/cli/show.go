package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/commitlog"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print a commit's payload",
		Long: `Print the stored payload of a commit as indented JSON.

The payload is shown as written, without reconstructing typed objects,
so commits made with types this tool does not know are still readable.
Omit the id (or pass "latest") for the most recent commit.

Example:
  strata --db params.db show 3
  strata --db params.db show`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCommitID(args)
			if err != nil {
				return err
			}
			return runShow(opts, id, cmd)
		},
	}

	return cmd
}

func parseCommitID(args []string) (int64, error) {
	if len(args) == 0 || args[0] == "latest" {
		return commitlog.Latest, nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, NewExitError(ExitCommandError,
			fmt.Sprintf("invalid commit id %q: must be a positive integer or \"latest\"", args[0]))
	}
	return id, nil
}

func runShow(opts *ShowOptions, id int64, cmd *cobra.Command) error {
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

	raw, err := log.LoadRaw(cmd.Context(), id)
	if err != nil {
		if commitlog.IsNotFound(err) {
			_ = out.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitFailure, "commit not found", err)
		}
		_ = out.Error(ErrCodeGeneric, "failed to load commit", err.Error())
		return WrapExitError(ExitCommandError, "failed to load commit", err)
	}

	if opts.Format == "json" {
		return out.Success(json.RawMessage(raw))
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, []byte(raw), "", "  "); err != nil {
		_ = out.Error(ErrCodeBadPayload, "stored payload is not valid JSON", err.Error())
		return WrapExitError(ExitCommandError, "stored payload is not valid JSON", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), indented.String())
	return nil
}
