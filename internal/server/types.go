package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/textlift/textlift/internal/pipeline"
	"github.com/textlift/textlift/internal/recognizer"
)

// recognitionPipeline defines what the server needs from the pipeline.
type recognitionPipeline interface {
	Process(ctx context.Context, data []byte) (*pipeline.Result, error)
}

// Server holds the HTTP server state and dependencies. All fields are
// immutable after construction, so concurrent requests share nothing
// mutable.
type Server struct {
	pipeline       recognitionPipeline
	authUser       string
	authPass       string
	maxUploadBytes int64
}

// Config holds server configuration. It is passed explicitly so multiple
// server instances (e.g. in tests) never interfere.
type Config struct {
	Host string
	Port int
	// Auth enables HTTP Basic Auth when non-empty, formatted "user:pass".
	Auth        string
	MaxUploadMB int64
	TimeoutSec  int
	// ShutdownTimeoutSec bounds graceful shutdown.
	ShutdownTimeoutSec int
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// RectCorners names the four corners of a text region in pixel coordinates
// with top-left origin. This is the canonical, more expressive form of the
// region geometry alongside the axis-aligned box.
type RectCorners struct {
	TopLeftX     float64 `json:"top_left_x"`
	TopLeftY     float64 `json:"top_left_y"`
	TopRightX    float64 `json:"top_right_x"`
	TopRightY    float64 `json:"top_right_y"`
	BottomRightX float64 `json:"bottom_right_x"`
	BottomRightY float64 `json:"bottom_right_y"`
	BottomLeftX  float64 `json:"bottom_left_x"`
	BottomLeftY  float64 `json:"bottom_left_y"`
}

// OCRBox is one recognized text region in the upload response.
type OCRBox struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence,omitempty"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	W          float64     `json:"w"`
	H          float64     `json:"h"`
	Rect       RectCorners `json:"rect"`
}

// UploadResponse is the JSON envelope for /upload, used for both success and
// failure outcomes.
type UploadResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	OCRResult   string   `json:"ocr_result"`
	ImageWidth  int      `json:"image_width"`
	ImageHeight int      `json:"image_height"`
	OCRBoxes    []OCRBox `json:"ocr_boxes"`
}

// NewServer creates a server around an engine. The pipeline is built here so
// callers only wire configuration plus the recognition capability.
func NewServer(config Config, engine recognizer.Engine) (*Server, error) {
	pl, err := pipeline.New(engine)
	if err != nil {
		return nil, err
	}
	return newServerWithPipeline(config, pl)
}

func newServerWithPipeline(config Config, pl recognitionPipeline) (*Server, error) {
	if config.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("invalid max upload size: %d MB", config.MaxUploadMB)
	}

	s := &Server{
		pipeline:       pl,
		maxUploadBytes: config.MaxUploadMB * 1024 * 1024,
	}
	if config.Auth != "" {
		user, pass, ok := strings.Cut(config.Auth, ":")
		if !ok || user == "" || pass == "" || strings.Contains(pass, ":") {
			return nil, fmt.Errorf("invalid auth format (want user:pass): %q", config.Auth)
		}
		s.authUser = user
		s.authPass = pass
	}
	return s, nil
}

// AuthEnabled reports whether Basic Auth is enforced.
func (s *Server) AuthEnabled() bool {
	return s.authUser != ""
}

// SetupRoutes configures the HTTP routes. When auth is configured it guards
// every route, so unauthenticated requests never reach decode or
// recognition.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.instrument(s.authMiddleware(s.indexHandler)))
	mux.HandleFunc("/upload", s.instrument(s.authMiddleware(s.uploadHandler)))
	mux.HandleFunc("/health", s.instrument(s.authMiddleware(s.healthHandler)))
	mux.HandleFunc("/metrics", s.authMiddleware(metricsHandler().ServeHTTP))
}
