package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		configuredAuth string
		user, pass     string
		sendAuth       bool
		expectedStatus int
		pipelineCalled bool
	}{
		{
			name:           "no auth configured lets anonymous requests through",
			configuredAuth: "",
			sendAuth:       false,
			expectedStatus: http.StatusOK,
			pipelineCalled: true,
		},
		{
			name:           "no auth configured ignores stray credentials",
			configuredAuth: "",
			sendAuth:       true,
			user:           "whoever",
			pass:           "whatever",
			expectedStatus: http.StatusOK,
			pipelineCalled: true,
		},
		{
			name:           "matching credentials accepted",
			configuredAuth: "admin:secret",
			sendAuth:       true,
			user:           "admin",
			pass:           "secret",
			expectedStatus: http.StatusOK,
			pipelineCalled: true,
		},
		{
			name:           "wrong password rejected",
			configuredAuth: "admin:secret",
			sendAuth:       true,
			user:           "admin",
			pass:           "nope",
			expectedStatus: http.StatusUnauthorized,
			pipelineCalled: false,
		},
		{
			name:           "missing credentials rejected",
			configuredAuth: "admin:secret",
			sendAuth:       false,
			expectedStatus: http.StatusUnauthorized,
			pipelineCalled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := &mockPipeline{}
			server := newTestServer(t, Config{Auth: tt.configuredAuth}, pl)
			mux := http.NewServeMux()
			server.SetupRoutes(mux)

			req := newUploadRequest(t, "file", []byte("payload"))
			if tt.sendAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.pipelineCalled {
				assert.Equal(t, 1, pl.calls)
			} else {
				// Rejected requests never reach decode or recognition.
				assert.Zero(t, pl.calls)
			}

			if tt.expectedStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
				var response UploadResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.False(t, response.Success)
			}
		})
	}
}

func TestInstrumentCapturesStatus(t *testing.T) {
	server := newTestServer(t, Config{}, &mockPipeline{})

	handler := server.instrument(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
}
