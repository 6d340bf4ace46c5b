package analyzer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/pageinsight"
	"github.com/Bahjat/site-scorecard/internal/platform/errs"
	"github.com/Bahjat/site-scorecard/internal/platform/requestid"
	"github.com/Bahjat/site-scorecard/internal/security"
)

// Service orchestrates a PageInsightProvider and logs results.
type Service struct {
	provider     PageInsightProvider
	certificates CertificateProvider
	logger       *slog.Logger
}

// NewService creates a Service backed by the given providers. certificates
// may be nil, in which case certificate inspection is unavailable.
func NewService(provider PageInsightProvider, certificates CertificateProvider, logger *slog.Logger) *Service {
	return &Service{provider: provider, certificates: certificates, logger: logger}
}

// Analyze delegates to the provider and logs the outcome.
func (s *Service) Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error) {
	logger := s.logger.With(slog.String("url", targetURL), requestid.Attr(ctx))

	result, err := s.provider.Analyze(ctx, targetURL)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &errs.AppError{
				Kind:    errs.Timeout,
				Message: "Analysis timed out. The target URL may be slow to respond.",
				Cause:   err,
			}
		}

		attrs := []any{"error", err, "kind", errs.KindOf(err).String()}
		var appErr *errs.AppError
		if errors.As(err, &appErr) && appErr.UpstreamStatus != 0 {
			attrs = append(attrs, "target_status", appErr.UpstreamStatus)
		}
		logger.Error("analysis failed", attrs...)
		return nil, err
	}

	logger.Info("analysis complete",
		"overall_score", result.OverallScore,
		"quality_score", result.Sections.WebsiteQuality.Score,
		"security_score", result.Sections.TrustSecurity.Score,
		"page_speed_score", result.Sections.PageSpeed.Score,
		"load_time", result.LoadTime,
	)
	return result, nil
}

// InspectCertificate validates targetURL and inspects the certificate of
// its host. Failures never affect Analyze.
func (s *Service) InspectCertificate(ctx context.Context, targetURL string) (*security.CertificateReport, error) {
	logger := s.logger.With(slog.String("url", targetURL), requestid.Attr(ctx))

	if s.certificates == nil {
		return nil, &errs.AppError{Kind: errs.Internal, Message: "Certificate inspection is not enabled."}
	}

	parsed, err := pageinsight.ValidateURL(targetURL)
	if err != nil {
		return nil, err
	}

	host := parsed.Host
	if parsed.Scheme == "http" {
		host = parsed.Hostname()
	}

	report, err := s.certificates.Inspect(ctx, host)
	if err != nil {
		logger.Warn("certificate inspection failed", "error", err)
		return nil, &errs.AppError{
			Kind:    errs.Unreachable,
			Message: "Could not inspect the TLS certificate.",
			Cause:   err,
		}
	}

	logger.Info("certificate inspected",
		"issuer", report.Certificate.Issuer,
		"days_remaining", report.Certificate.DaysRemaining,
		"protocol", report.Certificate.Protocol,
	)
	return report, nil
}
