package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yt-transcript/internal/api/server"
	openaiapi "yt-transcript/internal/app/api/openai"
	"yt-transcript/internal/app/api/openai/whisper"
	"yt-transcript/internal/app/metrics"
	"yt-transcript/internal/app/testutil"
	"yt-transcript/internal/app/transcript"
	"yt-transcript/internal/downloader"
)

type testEnv struct {
	server    *server.Server
	scratch   string
	uploads   *int32
	uploadDir chan string
}

// newTestEnv wires a real pipeline to a fake yt-dlp script and a fake OpenAI
// transcription endpoint that always answers "hello world".
func newTestEnv(t *testing.T, ytdlpScript string, apiKey string) *testEnv {
	t.Helper()

	var uploads int32
	uploadDir := make(chan string, 1)
	openaiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&uploads, 1)
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			if _, header, err := r.FormFile("file"); err == nil {
				select {
				case uploadDir <- header.Filename:
				default:
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "hello world"}`))
	}))
	t.Cleanup(openaiServer.Close)

	scratch := filepath.Join(t.TempDir(), "tmp")
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	client := openaiapi.NewClient(apiKey, openaiServer.URL+"/v1")
	pipeline := transcript.NewPipeline(
		downloader.NewYtDlp(testutil.WriteFakeYtDlp(t, ytdlpScript), zap.NewNop()),
		whisper.NewRemoteTranscriber(client, apiKey != ""),
		transcript.Options{
			ScratchDir:   scratch,
			AllowedHosts: []string{"youtube.com", "youtu.be"},
		},
		zap.NewNop(),
		transcript.WithMetrics(m),
	)

	srv := server.NewServer(server.Config{
		Host:         "127.0.0.1",
		Port:         0,
		Environment:  "test",
		MaxBodyBytes: 1024,
	}, pipeline, m, reg, zap.NewNop())

	return &testEnv{server: srv, scratch: scratch, uploads: &uploads, uploadDir: uploadDir}
}

func (e *testEnv) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/fetch-transcript", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) scratchEntries(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(e.scratch)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestFetchTranscript_EndToEnd(t *testing.T) {
	env := newTestEnv(t, testutil.FakeYtDlpScript, "sk-test")

	rec := env.post(t, `{"videoUrl":"https://youtu.be/abc123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"transcript":"hello world"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, int32(1), atomic.LoadInt32(env.uploads))
	assert.Equal(t, "audio-abc123.m4a", <-env.uploadDir)
	assert.Empty(t, env.scratchEntries(t), "downloaded audio is removed")
}

func TestFetchTranscript_Errors(t *testing.T) {
	tests := []struct {
		name           string
		script         string
		apiKey         string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "not a url",
			script:         testutil.FakeYtDlpScript,
			apiKey:         "sk-test",
			body:           `{"videoUrl":"not a url"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Please send a valid YouTube URL.",
		},
		{
			name:           "missing videoUrl",
			script:         testutil.FakeYtDlpScript,
			apiKey:         "sk-test",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "videoUrl is required",
		},
		{
			name:           "body too large",
			script:         testutil.FakeYtDlpScript,
			apiKey:         "sk-test",
			body:           `{"videoUrl":"https://youtu.be/` + strings.Repeat("a", 2048) + `"}`,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedError:  "Request body too large.",
		},
		{
			name:           "download failure",
			script:         testutil.FakeYtDlpFailingScript,
			apiKey:         "sk-test",
			body:           `{"videoUrl":"https://youtu.be/abc123"}`,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Audio download failed. Check yt-dlp is installed and the video is accessible.",
		},
		{
			name:           "no audio produced",
			script:         testutil.FakeYtDlpSilentScript,
			apiKey:         "sk-test",
			body:           `{"videoUrl":"https://youtu.be/abc123"}`,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Audio download failed: no audio files found.",
		},
		{
			name:           "missing api key",
			script:         testutil.FakeYtDlpScript,
			apiKey:         "",
			body:           `{"videoUrl":"https://youtu.be/abc123"}`,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "OPENAI_API_KEY is not set on the server. Add it and redeploy.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.script, tt.apiKey)

			rec := env.post(t, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, map[string]interface{}{"error": tt.expectedError}, body)

			assert.Zero(t, atomic.LoadInt32(env.uploads), "nothing is uploaded")
			assert.Empty(t, env.scratchEntries(t))
		})
	}
}

func TestAmbientEndpoints(t *testing.T) {
	env := newTestEnv(t, testutil.FakeYtDlpScript, "sk-test")
	env.post(t, `{"videoUrl":"https://vimeo.com/1"}`)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	health := get("/health")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), "healthy")

	index := get("/")
	assert.Equal(t, http.StatusOK, index.Code)
	assert.Contains(t, index.Body.String(), "/api/fetch-transcript")

	metricsRec := get("/metrics")
	assert.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), `yt_transcript_requests_total{outcome="invalid_input"} 1`)
	assert.Contains(t, metricsRec.Body.String(), `route="/api/fetch-transcript",status="400"`)

	swagger := get("/swagger/doc.json")
	assert.Equal(t, http.StatusOK, swagger.Code)
	assert.Contains(t, swagger.Body.String(), "/api/fetch-transcript")
}

func TestServer_StartAndShutdown(t *testing.T) {
	env := newTestEnv(t, testutil.FakeYtDlpScript, "sk-test")
	require.NoError(t, env.server.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, env.server.Shutdown(ctx))

	select {
	case err, ok := <-env.server.Errors():
		assert.False(t, ok, "unexpected serve error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestFetchTranscript_CORSPreflight(t *testing.T) {
	env := newTestEnv(t, testutil.FakeYtDlpScript, "sk-test")

	req := httptest.NewRequest(http.MethodOptions, "/api/fetch-transcript", bytes.NewReader(nil))
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	body, _ := io.ReadAll(rec.Body)
	assert.Empty(t, body)
}
