package frontend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiiichu/stress-estimator/internal/application/dto"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
	"github.com/Kiiichu/stress-estimator/internal/frontend"
)

// --- Mock implementations ---

type mockAPI struct {
	predictErr error
	ruleSetErr error
	predicted  []dto.PredictStressRequest
	response   dto.PredictStressResponse
}

func (m *mockAPI) Predict(_ context.Context, req dto.PredictStressRequest) (dto.PredictStressResponse, error) {
	m.predicted = append(m.predicted, req)
	return m.response, m.predictErr
}

func (m *mockAPI) RuleSet(_ context.Context) (dto.RuleSetResponse, error) {
	if m.ruleSetErr != nil {
		return dto.RuleSetResponse{}, m.ruleSetErr
	}
	return dto.FromRuleSet(ruleset.RevisionA()), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMux(api frontend.StressAPI) *http.ServeMux {
	mux := http.NewServeMux()
	frontend.NewHandler(api, testLogger()).RegisterRoutes(mux)
	return mux
}

func postForm(mux http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func validForm() url.Values {
	return url.Values{
		"assignments":  {"4"},
		"class_hours":  {"20"},
		"sleep_hours":  {"6.5"},
		"days_to_exam": {"30"},
	}
}

// --- Tests ---

func TestBandFor(t *testing.T) {
	tests := []struct {
		score float64
		emoji string
		color string
	}{
		{0, "😌", "#4ade80"},
		{39.9, "😌", "#4ade80"},
		{40, "😐", "#facc15"},
		{59.9, "😐", "#facc15"},
		{60, "😫", "#f87171"},
		{100, "😫", "#f87171"},
	}

	for _, tt := range tests {
		b := frontend.BandFor(tt.score)
		assert.Equal(t, tt.emoji, b.Emoji, "score %v", tt.score)
		assert.Equal(t, tt.color, b.Color, "score %v", tt.score)
	}
}

func TestGaugeAngle(t *testing.T) {
	assert.Equal(t, 0.0, frontend.GaugeAngle(0))
	assert.Equal(t, 90.0, frontend.GaugeAngle(50))
	assert.Equal(t, 180.0, frontend.GaugeAngle(100))
	assert.Equal(t, 180.0, frontend.GaugeAngle(140))
	assert.Equal(t, 0.0, frontend.GaugeAngle(-3))
}

func TestPlaceholder(t *testing.T) {
	p := frontend.Placeholder()
	assert.Equal(t, 62.0, p.StressScore)
	assert.Equal(t, "Medium", p.Category)
	assert.Len(t, p.Advice, 2)
}

func TestHandler_Index(t *testing.T) {
	t.Run("sliders follow the backend rule set", func(t *testing.T) {
		w := httptest.NewRecorder()
		newMux(&mockAPI{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Ready?")
		assert.Contains(t, body, `name="class_hours"`)
		assert.Contains(t, body, `max="168"`)
		assert.Contains(t, body, "Rule set A")
	})

	t.Run("falls back to default bounds", func(t *testing.T) {
		w := httptest.NewRecorder()
		newMux(&mockAPI{ruleSetErr: errors.New("down")}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `max="40"`)
	})

	t.Run("unknown paths are not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		newMux(&mockAPI{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shutdown", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Analyze(t *testing.T) {
	t.Run("renders the backend result", func(t *testing.T) {
		api := &mockAPI{response: dto.PredictStressResponse{
			StressScore: 71.4,
			Category:    "Medium",
			TopFactor:   "Assignments",
			Advice:      []string{"Break assignments into small tasks and use time-blocking."},
		}}

		w := postForm(newMux(api), validForm())
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, api.predicted, 1)
		assert.Equal(t, dto.PredictStressRequest{Assignments: 4, ClassHours: 20, SleepHours: 6.5, DaysToExam: 30}, api.predicted[0])

		body := w.Body.String()
		assert.Contains(t, body, "Medium 😫")
		assert.Contains(t, body, ">71<")
		assert.Contains(t, body, "time-blocking")
		assert.NotContains(t, body, "Backend unavailable")
	})

	t.Run("backend failure shows the placeholder", func(t *testing.T) {
		api := &mockAPI{predictErr: errors.New("connection refused")}

		w := postForm(newMux(api), validForm())
		require.Equal(t, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(t, body, "Medium 😫")
		assert.Contains(t, body, ">62<")
		assert.Contains(t, body, "Take short breaks.")
		assert.Contains(t, body, "Backend unavailable")
	})

	t.Run("backend rejection shows the reasons, not the placeholder", func(t *testing.T) {
		api := &mockAPI{predictErr: &frontend.RejectionError{
			Path:       "/predict",
			StatusCode: http.StatusUnprocessableEntity,
			Reasons:    []string{"assignments must be between 0 and 9"},
		}}

		w := postForm(newMux(api), validForm())
		require.Equal(t, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(t, body, "Inputs rejected")
		assert.Contains(t, body, "assignments must be between 0 and 9")
		assert.NotContains(t, body, "Take short breaks.")
		assert.NotContains(t, body, "Backend unavailable")
		assert.NotContains(t, body, ">62<")
	})

	t.Run("advice is escaped", func(t *testing.T) {
		api := &mockAPI{response: dto.PredictStressResponse{
			StressScore: 10, Category: "Low", Advice: []string{"<script>alert(1)</script>"},
		}}

		w := postForm(newMux(api), validForm())
		assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
	})

	t.Run("bad form values return 400", func(t *testing.T) {
		form := validForm()
		form.Set("assignments", "four")

		w := postForm(newMux(&mockAPI{}), form)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "assignments must be an integer")
	})
}

func TestAPIClient(t *testing.T) {
	t.Run("predict round trip", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/predict", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Len(t, body, 4)
			assert.Equal(t, 6.5, body["sleep_hours"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"stress_score":48.3,"category":"Low","top_factor":"Lack of sleep","advice":["a"]}`)
		}))
		defer backend.Close()

		client := frontend.NewAPIClient(backend.URL, time.Second, testLogger())
		resp, err := client.Predict(context.Background(), dto.PredictStressRequest{
			Assignments: 2, ClassHours: 15, SleepHours: 6.5, DaysToExam: 40,
		})
		require.NoError(t, err)
		assert.Equal(t, 48.3, resp.StressScore)
		assert.Equal(t, "Lack of sleep", resp.TopFactor)
	})

	t.Run("ruleset", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(dto.FromRuleSet(ruleset.RevisionB()))
		}))
		defer backend.Close()

		rs, err := frontend.NewAPIClient(backend.URL, time.Second, testLogger()).RuleSet(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "B", rs.Revision)
		assert.Equal(t, ruleset.Range{Min: 0, Max: 12}, rs.Bounds.SleepHours)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"validation failed"}`, http.StatusUnprocessableEntity)
		}))
		defer backend.Close()

		_, err := frontend.NewAPIClient(backend.URL, time.Second, testLogger()).
			Predict(context.Background(), dto.PredictStressRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, frontend.ErrBackendRejected)
		assert.Contains(t, err.Error(), "422")
	})

	t.Run("validation rejection keeps the field reasons", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"error":"validation failed","fields":[`+
				`{"field":"assignments","message":"must be between 0 and 9"},`+
				`{"field":"class_hours","message":"must be between 10 and 40"}]}`)
		}))
		defer backend.Close()

		_, err := frontend.NewAPIClient(backend.URL, time.Second, testLogger()).
			Predict(context.Background(), dto.PredictStressRequest{Assignments: 12, ClassHours: 5})

		var rejected *frontend.RejectionError
		require.True(t, errors.As(err, &rejected))
		assert.Equal(t, http.StatusUnprocessableEntity, rejected.StatusCode)
		assert.Equal(t, []string{
			"assignments must be between 0 and 9",
			"class_hours must be between 10 and 40",
		}, rejected.Reasons)
	})

	t.Run("server error keeps the details", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"prediction failed","details":"oracle returned a non-numeric score"}`)
		}))
		defer backend.Close()

		_, err := frontend.NewAPIClient(backend.URL, time.Second, testLogger()).
			Predict(context.Background(), dto.PredictStressRequest{})

		var rejected *frontend.RejectionError
		require.True(t, errors.As(err, &rejected))
		assert.Equal(t, []string{"prediction failed: oracle returned a non-numeric score"}, rejected.Reasons)
	})

	t.Run("unreachable backend is an error", func(t *testing.T) {
		backend := httptest.NewServer(http.NotFoundHandler())
		addr := backend.URL
		backend.Close()

		_, err := frontend.NewAPIClient(addr, time.Second, testLogger()).
			Predict(context.Background(), dto.PredictStressRequest{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, frontend.ErrBackendRejected)
	})
}
