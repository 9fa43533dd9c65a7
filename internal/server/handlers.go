package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/textlift/textlift/internal/pipeline"
	"github.com/textlift/textlift/internal/version"
)

const uploadFormHTML = `<!doctype html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>textlift</title>
</head>
<body>
    <h1>textlift v%s</h1>
    <form action="/upload" method="post" enctype="multipart/form-data">
        <label>
            Choose file:
            <input type="file" name="file" required>
        </label>
        <br><br>
        <input type="submit" value="Upload file">
    </form>
</body>
</html>
`

const resultPageHTML = `<!doctype html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>OCR Result</title>
</head>
<body>
    <h1>%s</h1>
    <pre>%s</pre>
</body>
</html>
`

// indexHandler serves the minimal upload form.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	v, _, _ := version.Info()
	_, _ = fmt.Fprintf(w, uploadFormHTML, v)
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	v, _, _ := version.Info()
	response := HealthResponse{
		Status:  "healthy",
		Version: v,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding health response", "error", err)
	}
}

// uploadHandler accepts one image per request, runs recognition over it, and
// responds with the result envelope. The per-request stages run strictly in
// order: auth (middleware), size check, decode, recognize, assemble,
// respond.
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Enforce the size limit before any decode work so pathological uploads
	// never reach the recognizer.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if r.ContentLength > s.maxUploadBytes {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeErrorResponse(w, "No file received", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadBytes {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	res, err := s.pipeline.Process(r.Context(), data)
	ocrProcessingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.handleProcessError(w, err)
		return
	}

	ocrRequestsTotal.WithLabelValues("ok").Inc()
	ocrTextLength.Observe(float64(len(res.Text)))
	ocrRegionsDetected.Observe(float64(len(res.Regions)))

	response := UploadResponse{
		Success:     true,
		Message:     "File uploaded successfully",
		OCRResult:   res.Text,
		ImageWidth:  res.Width,
		ImageHeight: res.Height,
		OCRBoxes:    boxesFromRegions(res.Regions),
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("encoding upload response", "error", err)
		}
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, resultPageHTML, "OCR Result:", html.EscapeString(res.Text))
}

// handleProcessError maps pipeline error kinds to HTTP responses. Engine
// error details never leak verbatim to clients.
func (s *Server) handleProcessError(w http.ResponseWriter, err error) {
	var invalid *pipeline.InvalidImageError
	var engine *pipeline.EngineError
	switch {
	case errors.As(err, &invalid):
		ocrRequestsTotal.WithLabelValues("invalid_image").Inc()
		s.writeErrorResponse(w, "Invalid or unsupported image format", http.StatusBadRequest)
	case errors.As(err, &engine):
		ocrRequestsTotal.WithLabelValues("engine_error").Inc()
		slog.Error("recognition engine failure", "error", err)
		s.writeErrorResponse(w, "Text recognition failed", http.StatusInternalServerError)
	default:
		ocrRequestsTotal.WithLabelValues("engine_error").Inc()
		slog.Error("recognition failure", "error", err)
		s.writeErrorResponse(w, "Text recognition failed", http.StatusInternalServerError)
	}
}

// boxesFromRegions converts pipeline regions into response boxes, preserving
// the recognizer-reported order.
func boxesFromRegions(regions []pipeline.Region) []OCRBox {
	boxes := make([]OCRBox, 0, len(regions))
	for _, region := range regions {
		boxes = append(boxes, OCRBox{
			Text:       region.Text,
			Confidence: region.Confidence,
			X:          region.Box.X,
			Y:          region.Box.Y,
			W:          region.Box.W,
			H:          region.Box.H,
			Rect: RectCorners{
				TopLeftX:     region.Corners[0].X,
				TopLeftY:     region.Corners[0].Y,
				TopRightX:    region.Corners[1].X,
				TopRightY:    region.Corners[1].Y,
				BottomRightX: region.Corners[2].X,
				BottomRightY: region.Corners[2].Y,
				BottomLeftX:  region.Corners[3].X,
				BottomLeftY:  region.Corners[3].Y,
			},
		})
	}
	return boxes
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeErrorResponse writes the JSON error envelope.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := UploadResponse{
		Success:  false,
		Message:  message,
		OCRBoxes: []OCRBox{},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding error response", "error", err)
	}
}
