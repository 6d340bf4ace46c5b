// Package cli implements the scorecard command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bahjat/site-scorecard/internal/platform/errs"
	"github.com/Bahjat/site-scorecard/internal/platform/logger"
)

// Exit codes.
const (
	ExitOK           = 0
	ExitInvalidInput = 2
	ExitRuntimeError = 3
)

var version = "dev"

// options are the persistent flags shared by every subcommand.
type options struct {
	format       string
	logLevel     string
	timeout      time.Duration
	auxTimeout   time.Duration
	allowPrivate bool
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

// NewRootCmd builds the command tree writing results to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "scorecard",
		Short: "Score a web page for quality, security and page speed",
		Long: `scorecard fetches a page together with its robots.txt, sitemap.xml and
llms.txt and reports a 0-100 score across three axes:

- website quality (markup, meta and social tags, crawlability)
- trust and security (response headers, infrastructure, trust signals)
- page speed (synthetic performance, SEO, best practices, accessibility)

Examples:
  scorecard analyze https://example.com
  scorecard analyze https://example.com --format yaml
  scorecard certificate https://example.com`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch opts.format {
			case formatJSON, formatYAML:
				return nil
			default:
				return &errs.AppError{
					Kind:    errs.InvalidInput,
					Message: fmt.Sprintf("unsupported format %q (want json or yaml)", opts.format),
				}
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.format, "format", "f", formatJSON, "output format: json or yaml")
	flags.StringVar(&opts.logLevel, "log-level", "ERROR", "log level: DEBUG, INFO, WARN, ERROR")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "timeout for the page fetch")
	flags.DurationVar(&opts.auxTimeout, "aux-timeout", 5*time.Second, "timeout for each robots.txt, sitemap.xml and llms.txt fetch")
	flags.BoolVar(&opts.allowPrivate, "allow-private", false, "allow fetching private and loopback addresses")

	root.AddCommand(newAnalyzeCmd(opts), newCertificateCmd(opts))
	return root
}

func (o *options) logger() *slog.Logger {
	return logger.New(o.logLevel, os.Stderr)
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
