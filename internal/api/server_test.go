package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shiddong/blog/internal/analyze"
	"github.com/shiddong/blog/internal/config"
	"github.com/shiddong/blog/internal/outline"
	"github.com/shiddong/blog/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:         testKey,
		MaxUploadBytes: 1 << 20,
		WordsPerMinute: 200,
		TOCIndentDepth: outline.DefaultIndentDepth,
		TOCFromHeading: outline.DefaultFromHeading,
		TOCToHeading:   outline.DefaultToHeading,
		TOCPolicy:      string(outline.PolicyStepped),
		StatsWindow:    time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(&analyze.Analyzer{WordsPerMinute: cfg.WordsPerMinute}, stats.NewLatency(cfg.StatsWindow), log, cfg)
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+testKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/wordcount", strings.NewReader(`{"text":"a"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/wordcount", strings.NewReader(`{"text":"a"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWordCount(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/wordcount", strings.NewReader(`{"text":"hello 你好 world"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got wordCountResponse
	decode(t, rec, &got)
	assert.Equal(t, wordCountResponse{Latin: 2, Han: 2, Words: 4, ReadingMinutes: 1}, got)
}

func TestWordCount_BadJSON(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/wordcount", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOutline(t *testing.T) {
	s := newTestServer(t)
	body := `{
		"headings": [
			{"value":"Intro","depth":1,"url":"#intro"},
			{"value":"Setup","depth":2,"url":"#setup"},
			{"value":"API","depth":3,"url":"#api"},
			{"value":"Notes","depth":2,"url":"#notes"}
		],
		"options": {"exclude": "setup"}
	}`
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/outline", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Items []outline.Item `json:"items"`
	}
	decode(t, rec, &got)
	assert.Equal(t, []outline.Item{
		{Heading: outline.Heading{Value: "Intro", Depth: 1, URL: "#intro"}, Indent: 0},
		{Heading: outline.Heading{Value: "API", Depth: 3, URL: "#api"}, Indent: 2},
		{Heading: outline.Heading{Value: "Notes", Depth: 2, URL: "#notes"}, Indent: 1},
	}, got.Items)
}

func TestOutline_BadOptions(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad pattern", `{"headings":[],"options":{"exclude":["(oops"]}}`},
		{"inverted range", `{"headings":[],"options":{"fromHeading":4,"toHeading":2}}`},
		{"unknown policy", `{"headings":[],"options":{"policy":"spiral"}}`},
		{"explicit zero bound", `{"headings":[],"options":{"toHeading":0}}`},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/outline", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func multipartRequest(t *testing.T, filename, content string, fields map[string][]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t)
	md := "# Intro\n\nhello world\n\n## Setup\n\n## Notes\n\n### Deep\n"
	req := multipartRequest(t, "post.md", md, map[string][]string{
		"exclude":    {"setup", "notes"},
		"to_heading": {"3"},
		"policy":     {"binary"},
	})
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got analyze.Report
	decode(t, rec, &got)
	assert.Equal(t, "post", got.Title)
	assert.Equal(t, 6, got.Words)
	require.Len(t, got.Outline, 2)
	assert.Equal(t, "Intro", got.Outline[0].Value)
	assert.Equal(t, 0, got.Outline[0].Indent)
	assert.Equal(t, "Deep", got.Outline[1].Value)
	assert.Equal(t, 1, got.Outline[1].Indent)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/stats/analyze", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var st struct {
		Stats stats.Snapshot `json:"stats"`
	}
	decode(t, rec, &st)
	assert.Equal(t, 1, st.Stats.Count)
}

func TestAnalyze_Rejections(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, multipartRequest(t, "image.png", "x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, multipartRequest(t, "post.md", "# x", map[string][]string{"from_heading": {"two"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, multipartRequest(t, "post.md", "# x", map[string][]string{"to_heading": {"0"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, multipartRequest(t, "post.md", "# x", map[string][]string{"exclude": {"[z-a]"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, multipartRequest(t, "post.md", "---\ntitle: [\n---\n", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, httptest.NewRequest(http.MethodPost, "/api/wordcount", strings.NewReader(`{"text":"a"}`)))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="POST",path="/api/wordcount",status="200"}`)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "post.md", sanitizeFilename("../../post.md"))
	assert.Equal(t, "unnamed", sanitizeFilename(""))
}
