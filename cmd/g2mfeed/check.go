package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const flagCurrentBuild = "current-build"

// errNoNewerBuild makes `check` exit non-zero without an error message when
// the deployed build is already current.
var errNoNewerBuild = errors.New("no newer build available")

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether the feed has a build newer than the one deployed",
		Long: "Check compares the feed's newest build against --current-build. " +
			"It prints the newer build number and exits 0 when an update is " +
			"available, and exits 1 otherwise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			currentBuild, err := cmd.Flags().GetString(flagCurrentBuild)
			if err != nil {
				return err
			}

			resolver, err := resolverFromFlags(cmd)
			if err != nil {
				return err
			}

			newer, result, err := resolver.IsNewBuildAvailable(cmd.Context(), currentBuild)
			if err != nil {
				return err
			}
			if !newer {
				return errNoNewerBuild
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Build)
			return nil
		},
	}

	cmd.Flags().String(flagCurrentBuild, "", "build number currently deployed")
	_ = cmd.MarkFlagRequired(flagCurrentBuild)
	return cmd
}
