package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/platform/errs"
)

const (
	analyzeTimeout     = 60 * time.Second
	certificateTimeout = 10 * time.Second
)

var errURLRequired = errors.New("the \"url\" field is required")

// Transport handles HTTP requests for page analysis.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", t.handleAnalyze)
	mux.HandleFunc("POST /certificate", t.handleCertificate)
	mux.HandleFunc("GET /health", t.handleHealth)
}

type analyzeRequest struct {
	URL string `json:"url"`
}

func (r analyzeRequest) validate() error {
	if r.URL == "" {
		return errURLRequired
	}
	return nil
}

func (t *Transport) decode(w http.ResponseWriter, r *http.Request) (analyzeRequest, bool) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.", err.Error())
		return req, false
	}

	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, "URL is required.", err.Error())
		return req, false
	}
	return req, true
}

func (t *Transport) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := t.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	result, err := t.service.Analyze(ctx, req.URL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, result)
}

func (t *Transport) handleCertificate(w http.ResponseWriter, r *http.Request) {
	req, ok := t.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), certificateTimeout)
	defer cancel()

	report, err := t.service.InspectCertificate(ctx, req.URL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, report)
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusFor maps an error to the HTTP status returned to the caller.
func StatusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.InvalidInput:
		return http.StatusBadRequest
	case errs.Unreachable, errs.Timeout:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		t.renderError(w, StatusFor(err), appErr.Message, appErr.Details())
		return
	}

	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.", err.Error())
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message, details string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:   message,
		Details: details,
	})
}
