package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/macpkg/g2mfeed"
	"github.com/macpkg/g2mfeed/fetch"
)

const (
	flagFeedURL  = "feed-url"
	flagCacheDir = "cache-dir"
	flagQuiet    = "quiet"
	flagTimeout  = "timeout"
	flagRetry    = "retry"
	flagPinHost  = "pin-host"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "g2mfeed",
		Short:         "Resolve the latest GoToMeeting release from the vendor feed",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String(flagFeedURL, g2mfeed.DefaultFeedURL, "URL of the releases JSON feed")
	cmd.PersistentFlags().String(flagCacheDir, "", "directory the feed is downloaded into (default: user cache dir)")
	cmd.PersistentFlags().BoolP(flagQuiet, "q", false, "suppress progress output")
	cmd.PersistentFlags().Duration(flagTimeout, 2*time.Minute, "per-request timeout")
	cmd.PersistentFlags().Duration(flagRetry, 0, "retry failed fetches with backoff for up to this long (0 disables)")
	cmd.PersistentFlags().String(flagPinHost, "", "resolve this hostname once and dial it by address (legacy TLS workaround)")

	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newCheckCmd())
	return cmd
}

// resolverFromFlags builds a Resolver from the persistent flags.
func resolverFromFlags(cmd *cobra.Command) (*g2mfeed.Resolver, error) {
	flags := cmd.Flags()

	feedURL, err := flags.GetString(flagFeedURL)
	if err != nil {
		return nil, err
	}
	cacheDir, err := flags.GetString(flagCacheDir)
	if err != nil {
		return nil, err
	}
	quiet, err := flags.GetBool(flagQuiet)
	if err != nil {
		return nil, err
	}
	timeout, err := flags.GetDuration(flagTimeout)
	if err != nil {
		return nil, err
	}
	retry, err := flags.GetDuration(flagRetry)
	if err != nil {
		return nil, err
	}
	pinHost, err := flags.GetString(flagPinHost)
	if err != nil {
		return nil, err
	}

	fetchOpts := []fetch.Opt{fetch.WithTimeout(timeout)}
	if retry > 0 {
		fetchOpts = append(fetchOpts, fetch.WithRetry(retry))
	}
	if pinHost != "" {
		fetchOpts = append(fetchOpts, fetch.WithPinnedHost(pinHost))
	}

	opts := []g2mfeed.Opt{
		g2mfeed.WithFeedURL(feedURL),
		g2mfeed.WithFetcher(fetch.New(fetchOpts...)),
	}
	if cacheDir != "" {
		opts = append(opts, g2mfeed.WithCacheDir(cacheDir))
	}
	if quiet {
		opts = append(opts, g2mfeed.WithReporter(g2mfeed.NopReporter()))
	} else {
		opts = append(opts, g2mfeed.WithReporter(g2mfeed.NewLogReporterWith(diagnosticLogger(cmd))))
	}
	return g2mfeed.New(opts...), nil
}

// diagnosticLogger logs progress lines to the command's stderr so stdout
// stays parseable by the host pipeline.
func diagnosticLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	return logger
}
