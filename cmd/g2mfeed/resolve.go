package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/macpkg/g2mfeed"
)

const (
	flagFormat = "format"

	formatText = "text"
	formatJSON = "json"
	formatEnv  = "env"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the download URL and build number of the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString(flagFormat)
			if err != nil {
				return err
			}

			resolver, err := resolverFromFlags(cmd)
			if err != nil {
				return err
			}

			result, err := resolver.Resolve(cmd.Context())
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), format, result)
		},
	}

	cmd.Flags().StringP(flagFormat, "f", formatText, "output format: text, json, or env")
	return cmd
}

func writeResult(w io.Writer, format string, result *g2mfeed.Result) error {
	switch format {
	case formatText:
		fmt.Fprintf(w, "%s %s\n", result.URL, result.Build)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		return enc.Encode(map[string]string{"url": result.URL, "build": result.Build})
	case formatEnv:
		fmt.Fprintf(w, "url=%s\nbuild=%s\n", result.URL, result.Build)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
