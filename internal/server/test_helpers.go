package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/textlift/textlift/internal/geometry"
	"github.com/textlift/textlift/internal/pipeline"
)

// mockPipeline returns a fixed recognition result for testing.
type mockPipeline struct {
	result *pipeline.Result
	err    error
	calls  int
}

func (m *mockPipeline) Process(_ context.Context, _ []byte) (*pipeline.Result, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &pipeline.Result{
		Text:   "Hello World\n",
		Width:  640,
		Height: 480,
		Regions: []pipeline.Region{
			{
				Text:       "Hello World",
				Confidence: 0.92,
				Box:        geometry.Rect{X: 10, Y: 10, W: 90, H: 20},
				Corners: geometry.Quad{
					{X: 10, Y: 10},
					{X: 100, Y: 10},
					{X: 100, Y: 30},
					{X: 10, Y: 30},
				},
			},
		},
	}, nil
}

// newTestServer builds a server around a mock pipeline.
func newTestServer(t *testing.T, config Config, pl recognitionPipeline) *Server {
	t.Helper()
	if config.MaxUploadMB == 0 {
		config.MaxUploadMB = 100
	}
	s, err := newServerWithPipeline(config, pl)
	require.NoError(t, err)
	return s
}

// newUploadRequest builds a multipart POST /upload request carrying data in
// the given form field.
func newUploadRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "upload.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return req
}
