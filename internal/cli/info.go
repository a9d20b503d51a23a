package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// infoResult is the JSON shape for info output.
type infoResult struct {
	Path    string `json:"path"`
	StoreID string `json:"store_id"`
	Commits int    `json:"commits"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "info",
		Short:         "Print database identity and commit count",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd)
		},
	}
	return cmd
}

func runInfo(opts *RootOptions, cmd *cobra.Command) error {
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

	id, err := log.StoreID(cmd.Context())
	if err != nil {
		_ = out.Error(ErrCodeGeneric, "failed to read store id", err.Error())
		return WrapExitError(ExitCommandError, "failed to read store id", err)
	}
	count, err := log.NumCommits(cmd.Context())
	if err != nil {
		_ = out.Error(ErrCodeGeneric, "failed to count commits", err.Error())
		return WrapExitError(ExitCommandError, "failed to count commits", err)
	}

	if opts.Format == "json" {
		return out.Success(infoResult{Path: log.Path(), StoreID: id, Commits: count})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "path:     %s\n", log.Path())
	fmt.Fprintf(cmd.OutOrStdout(), "store id: %s\n", id)
	fmt.Fprintf(cmd.OutOrStdout(), "commits:  %d\n", count)
	return nil
}
