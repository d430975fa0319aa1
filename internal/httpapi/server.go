package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hamed0406/demodash/internal/config"
	"github.com/hamed0406/demodash/internal/domain"
	apimw "github.com/hamed0406/demodash/internal/httpapi/middleware"
)

const (
	hintStartBackend = "start the backend service and check BACKEND_URL"
	hintFixJSON      = `fix the JSON format: send a single object such as {"key": "value"}`
	hintCheckBackend = "the document was valid but the backend did not answer; check that the API is available"
)

// Backend is the subset of backend.Client the panel drives.
type Backend interface {
	CheckHealth(ctx context.Context) domain.HealthResult
	SubmitText(ctx context.Context, text string) domain.SubmissionResult
}

type Server struct {
	Logger  *zap.Logger
	Config  config.Config
	Backend Backend
}

func NewServer(l *zap.Logger, cfg config.Config, b Backend) *Server {
	return &Server{Logger: l, Config: cfg, Backend: b}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if s.Config.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(apimw.Logger(s.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/panel", func(r chi.Router) {
		r.Use(apimw.RequireKey(s.Config.PanelAPIKeys))
		r.Get("/info", s.handleInfo)
		r.Post("/health", s.handleHealth)
		r.With(apimw.RateLimit(s.Config.SubmitRPM, s.Config.SubmitBurst)).
			Post("/submit", s.handleSubmit)
	})

	return r
}

type infoResponse struct {
	BackendURL  string `json:"backend_url"`
	TrackingURL string `json:"tracking_url"`
	TimeoutMS   int64  `json:"timeout_ms"`
}

type panelResponse[T any] struct {
	Result T      `json:"result"`
	Hint   string `json:"hint,omitempty"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		BackendURL:  s.Config.BackendURL,
		TrackingURL: s.Config.TrackingURL,
		TimeoutMS:   s.Config.RequestTimeout.Milliseconds(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := s.Backend.CheckHealth(r.Context())

	s.Logger.Info("panel_health_checked",
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.String("kind", string(res.Kind)),
		zap.Int("status", res.StatusCode),
		zap.Bool("body_known", res.BodyKnown),
		zap.Float64("latency_ms", res.LatencyMS),
		zap.String("error", res.Error),
	)

	out := panelResponse[domain.HealthResult]{Result: res}
	if res.Kind == domain.HealthUnreachable {
		out.Hint = hintStartBackend
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	limit := int64(s.Config.MaxDocumentBytes)
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read body"})
		return
	}

	res := s.Backend.SubmitText(r.Context(), string(raw))

	// the document itself is user content and stays out of the logs
	s.Logger.Info("panel_data_submitted",
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.String("kind", string(res.Kind)),
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Float64("latency_ms", res.LatencyMS),
		zap.String("error", res.Error),
		zap.String("reason", res.Reason),
	)

	out := panelResponse[domain.SubmissionResult]{Result: res}
	switch res.Kind {
	case domain.SubmissionInvalid:
		out.Hint = hintFixJSON
	case domain.SubmissionFailed:
		out.Hint = hintCheckBackend
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
