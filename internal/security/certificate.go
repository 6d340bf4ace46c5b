package security

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/scoring"
)

const certificateTimeout = 5 * time.Second

var errNoCertificate = errors.New("server presented no certificate")

// CertificateInfo is the metadata extracted from a server's leaf certificate.
type CertificateInfo struct {
	Subject       string    `json:"subject"`
	Issuer        string    `json:"issuer"`
	NotBefore     time.Time `json:"notBefore"`
	NotAfter      time.Time `json:"notAfter"`
	DaysRemaining int       `json:"daysRemaining"`
	Protocol      string    `json:"protocol"`
	DNSNames      []string  `json:"dnsNames,omitempty"`
}

// CertificateReport is the scored result of a certificate inspection.
type CertificateReport struct {
	Host        string          `json:"host"`
	Certificate CertificateInfo `json:"certificate"`
	Category    model.Category  `json:"category"`
}

// dialer is the subset of net.Dialer the inspector needs.
type dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// CertificateInspector opens a TLS connection to a host and scores its
// certificate. It is independent of the main analysis pipeline.
type CertificateInspector struct {
	dialer dialer
	now    func() time.Time
}

// NewCertificateInspector returns an inspector that connects through d.
func NewCertificateInspector(d dialer) *CertificateInspector {
	return &CertificateInspector{dialer: d, now: time.Now}
}

// Inspect performs a TLS handshake with host (port 443 unless given) and
// returns the scored certificate. Chain validation is disabled so that
// self-signed and expired certificates can still be described.
func (ci *CertificateInspector) Inspect(ctx context.Context, host string) (*CertificateReport, error) {
	ctx, cancel := context.WithTimeout(ctx, certificateTimeout)
	defer cancel()

	address := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		address = net.JoinHostPort(host, "443")
	}
	serverName, _, _ := net.SplitHostPort(address)

	raw, err := ci.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	defer func() { _ = raw.Close() }()

	conn := tls.Client(raw, &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: true, //nolint:gosec // certificate metadata is read, not trusted
	})
	if err := conn.HandshakeContext(ctx); err != nil {
		return nil, fmt.Errorf("tls handshake with %s: %w", address, err)
	}

	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, errNoCertificate
	}
	leaf := state.PeerCertificates[0]
	now := ci.now()

	info := CertificateInfo{
		Subject:       leaf.Subject.CommonName,
		Issuer:        leaf.Issuer.CommonName,
		NotBefore:     leaf.NotBefore,
		NotAfter:      leaf.NotAfter,
		DaysRemaining: int(leaf.NotAfter.Sub(now).Hours() / 24),
		Protocol:      tls.VersionName(state.Version),
		DNSNames:      leaf.DNSNames,
	}
	if info.Issuer == "" && len(leaf.Issuer.Organization) > 0 {
		info.Issuer = leaf.Issuer.Organization[0]
	}

	return &CertificateReport{
		Host:        serverName,
		Certificate: info,
		Category:    CertificateCategory(info, state.Version, now),
	}, nil
}

// CertificateCategory scores certificate metadata: validity window,
// remaining lifetime and negotiated protocol.
func CertificateCategory(info CertificateInfo, version uint16, now time.Time) model.Category {
	return scoring.Evaluate("sslCertificate", "SSL Certificate", []scoring.Rule{
		{Key: "certificateValid", Name: "Certificate Valid", Max: 5, Eval: func() scoring.Outcome {
			valid := !now.Before(info.NotBefore) && now.Before(info.NotAfter)
			return scoring.Binary(valid, 5, "Issued by "+info.Issuer, "Outside validity period", model.StatusError)
		}},
		{Key: "certificateExpiry", Name: "Certificate Expiry", Max: 5, Eval: func() scoring.Outcome {
			value := fmt.Sprintf("%d days remaining", info.DaysRemaining)
			switch {
			case info.DaysRemaining > 30:
				return scoring.Outcome{Score: 5, Value: value, Status: model.StatusGood}
			case info.DaysRemaining > 0:
				return scoring.Outcome{Score: 2, Value: value, Details: "Certificate expires within 30 days", Status: model.StatusWarning}
			default:
				return scoring.Outcome{Value: "Expired", Status: model.StatusError}
			}
		}},
		{Key: "protocolVersion", Name: "Protocol Version", Max: 5, Eval: func() scoring.Outcome {
			return scoring.Binary(version >= tls.VersionTLS12, 5, info.Protocol, info.Protocol, model.StatusError)
		}},
	})
}
