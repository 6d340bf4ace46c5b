package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Bahjat/site-scorecard/internal/analyzer"
	"github.com/Bahjat/site-scorecard/internal/pageinsight"
	"github.com/Bahjat/site-scorecard/internal/platform/errs"
	"github.com/Bahjat/site-scorecard/internal/platform/requestid"
	"github.com/Bahjat/site-scorecard/internal/security"
)

func newService(opts *options) *analyzer.Service {
	dialer := pageinsight.NewDialer(opts.allowPrivate)
	engine := pageinsight.NewEngine(
		pageinsight.NewHTTPClient(opts.timeout, dialer),
		pageinsight.NewAuxiliaryClient(opts.auxTimeout, dialer),
	)
	return analyzer.NewService(engine, security.NewCertificateInspector(dialer), opts.logger())
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <url>",
		Short: "Fetch a page and print its score report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newService(opts).Analyze(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.format, result)
		},
	}
}

func newCertificateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "certificate <url>",
		Short: "Inspect the TLS certificate served for a URL's host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := newService(opts).InspectCertificate(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.format, report)
		},
	}
}

// commandContext tags a command run with a request ID so its log records
// correlate the same way API requests do.
func commandContext(cmd *cobra.Command) context.Context {
	return requestid.NewContext(cmd.Context(), uuid.New().String())
}

func exitCode(err error) int {
	if errs.KindOf(err) == errs.InvalidInput {
		return ExitInvalidInput
	}
	return ExitRuntimeError
}
