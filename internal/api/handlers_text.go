package api

import (
	"encoding/json"
	"net/http"

	"github.com/shiddong/blog/internal/outline"
	"github.com/shiddong/blog/internal/wordcount"
)

// maxJSONBody bounds the JSON endpoints; uploads go through /api/analyze.
const maxJSONBody = 4 << 20

type wordCountRequest struct {
	Text string `json:"text"`
}

type wordCountResponse struct {
	Latin          int `json:"latin"`
	Han            int `json:"han"`
	Words          int `json:"words"`
	ReadingMinutes int `json:"reading_minutes"`
}

func (s *Server) handleWordCount(w http.ResponseWriter, r *http.Request) {
	var req wordCountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	counts := wordcount.Breakdown(req.Text)
	writeJSON(w, http.StatusOK, wordCountResponse{
		Latin:          counts.Latin,
		Han:            counts.Han,
		Words:          counts.Total,
		ReadingMinutes: int(wordcount.ReadingTime(counts.Total, s.cfg.WordsPerMinute).Minutes()),
	})
}

type outlineRequest struct {
	Headings []outline.Heading `json:"headings"`
	Options  outline.Options   `json:"options"`
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	// Fields absent from the request keep the configured defaults.
	req := outlineRequest{Options: s.cfg.OutlineOptions()}
	if !decodeJSON(w, r, &req) {
		return
	}

	filter, ok := s.newFilter(w, req.Options)
	if !ok {
		return
	}

	items := filter.Apply(req.Headings)
	outlineItems.Observe(float64(len(items)))
	writeJSON(w, http.StatusOK, map[string]any{
		"options": filter.Options(),
		"items":   items,
	})
}

// newFilter validates opts and compiles them, answering 400 on failure.
func (s *Server) newFilter(w http.ResponseWriter, opts outline.Options) (*outline.Filter, bool) {
	if err := opts.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	filter, err := outline.New(opts)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return filter, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
