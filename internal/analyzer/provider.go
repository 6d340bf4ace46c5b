package analyzer

import (
	"context"

	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/security"
)

// PageInsightProvider defines the contract for any analysis engine.
type PageInsightProvider interface {
	Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error)
}

// CertificateProvider inspects the TLS certificate served by a host.
type CertificateProvider interface {
	Inspect(ctx context.Context, host string) (*security.CertificateReport, error)
}
