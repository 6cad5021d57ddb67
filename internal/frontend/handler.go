package frontend

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Kiiichu/stress-estimator/internal/application/dto"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Handler renders the slider page.
type Handler struct {
	api    StressAPI
	logger *slog.Logger
}

// NewHandler creates a new Handler backed by api.
func NewHandler(api StressAPI, logger *slog.Logger) *Handler {
	return &Handler{api: api, logger: logger}
}

// RegisterRoutes registers the page routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /analyze", h.Analyze)
	mux.HandleFunc("GET /healthz", h.Health)
}

// Index renders the page with default slider positions and no result.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	rs := h.ruleSet(r)
	h.render(w, Page{
		Revision: rs.Revision,
		Sliders:  newSliders(rs, defaultInputs),
	})
}

// Analyze scores the submitted slider values. If the backend cannot be
// reached the placeholder result is shown instead; if it answers with an
// error the reasons are shown.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	in, err := parseInputs(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rs := h.ruleSet(r)
	page := Page{
		Revision: rs.Revision,
		Sliders:  newSliders(rs, in),
	}

	resp, err := h.api.Predict(r.Context(), in)
	var rejected *RejectionError
	switch {
	case err == nil:
		page.Result = newResult(resp, false)
	case errors.As(err, &rejected):
		h.logger.InfoContext(r.Context(), "prediction rejected by backend",
			slog.Int("status", rejected.StatusCode),
			slog.String("error", err.Error()),
		)
		page.Rejection = rejected.Reasons
	default:
		h.logger.WarnContext(r.Context(), "prediction unavailable, showing placeholder",
			slog.String("error", err.Error()),
		)
		page.Result = newResult(Placeholder(), true)
	}

	h.render(w, page)
}

// Health is the liveness probe endpoint.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "UP", "service": "stress-ui"}); err != nil {
		h.logger.Error("failed to encode health response", slog.String("error", err.Error()))
	}
}

func (h *Handler) ruleSet(r *http.Request) dto.RuleSetResponse {
	rs, err := h.api.RuleSet(r.Context())
	if err != nil {
		h.logger.DebugContext(r.Context(), "rule set unavailable, using defaults",
			slog.String("error", err.Error()),
		)
		return fallbackRuleSet()
	}
	return rs
}

func (h *Handler) render(w http.ResponseWriter, p Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, p); err != nil {
		h.logger.Error("failed to render page", slog.String("error", err.Error()))
	}
}

func parseInputs(r *http.Request) (dto.PredictStressRequest, error) {
	var in dto.PredictStressRequest

	if err := r.ParseForm(); err != nil {
		return in, fmt.Errorf("invalid form: %w", err)
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"assignments", &in.Assignments},
		{"days_to_exam", &in.DaysToExam},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(r.PostForm.Get(f.name))
		if err != nil {
			return in, fmt.Errorf("%s must be an integer", f.name)
		}
		*f.dst = v
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"class_hours", &in.ClassHours},
		{"sleep_hours", &in.SleepHours},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(r.PostForm.Get(f.name), 64)
		if err != nil {
			return in, fmt.Errorf("%s must be a number", f.name)
		}
		*f.dst = v
	}

	return in, nil
}
