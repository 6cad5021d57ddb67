// Package frontend serves the slider page that talks to stressd over HTTP.
package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Kiiichu/stress-estimator/internal/application/dto"
)

// ErrBackendRejected is returned when stressd answers with a non-200 status.
var ErrBackendRejected = errors.New("backend rejected request")

// RejectionError carries the reasons stressd gave for a non-200 answer. It
// matches ErrBackendRejected with errors.Is.
type RejectionError struct {
	Path       string
	Reasons    []string
	StatusCode int
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s %d: %s", ErrBackendRejected, e.Path, e.StatusCode, strings.Join(e.Reasons, "; "))
}

func (e *RejectionError) Unwrap() error { return ErrBackendRejected }

// errorBody is the error shape of the stressd REST API.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Fields  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func newRejectionError(path string, status int, body []byte) *RejectionError {
	rerr := &RejectionError{Path: path, StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		for _, f := range eb.Fields {
			rerr.Reasons = append(rerr.Reasons, f.Field+" "+f.Message)
		}
		if len(rerr.Reasons) == 0 {
			reason := eb.Error
			if eb.Details != "" {
				reason += ": " + eb.Details
			}
			rerr.Reasons = append(rerr.Reasons, reason)
		}
		return rerr
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		rerr.Reasons = append(rerr.Reasons, text)
	} else {
		rerr.Reasons = append(rerr.Reasons, http.StatusText(status))
	}
	return rerr
}

// StressAPI is the subset of the stressd HTTP API the page needs.
type StressAPI interface {
	Predict(ctx context.Context, req dto.PredictStressRequest) (dto.PredictStressResponse, error)
	RuleSet(ctx context.Context) (dto.RuleSetResponse, error)
}

// APIClient calls stressd over HTTP/JSON.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAPIClient creates a client for the stressd instance at baseURL.
func NewAPIClient(baseURL string, timeout time.Duration, logger *slog.Logger) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Predict posts the inputs to /predict.
func (c *APIClient) Predict(ctx context.Context, req dto.PredictStressRequest) (dto.PredictStressResponse, error) {
	var resp dto.PredictStressResponse

	body, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("marshal predict request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return resp, fmt.Errorf("create predict request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	err = c.do(httpReq, &resp)
	return resp, err
}

// RuleSet fetches the active rule set from /ruleset.
func (c *APIClient) RuleSet(ctx context.Context) (dto.RuleSetResponse, error) {
	var resp dto.RuleSetResponse

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ruleset", nil)
	if err != nil {
		return resp, fmt.Errorf("create ruleset request: %w", err)
	}

	err = c.do(httpReq, &resp)
	return resp, err
}

func (c *APIClient) do(req *http.Request, out any) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(req.Context(), "backend call",
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return newRejectionError(req.URL.Path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
