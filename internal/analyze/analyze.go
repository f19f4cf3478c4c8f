// Package analyze composes the parsers, the word counter and the outline
// filter for a single source document.
package analyze

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/shiddong/blog/internal/document"
	"github.com/shiddong/blog/internal/outline"
	"github.com/shiddong/blog/internal/parser"
	"github.com/shiddong/blog/internal/wordcount"
)

// Report is everything the presentation layer needs to show for a post.
type Report struct {
	DocID          string         `json:"doc_id"`
	Title          string         `json:"title"`
	Date           string         `json:"date,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Draft          bool           `json:"draft"`
	Latin          int            `json:"latin"`
	Han            int            `json:"han"`
	Words          int            `json:"words"`
	ReadingMinutes int            `json:"reading_minutes"`
	Outline        []outline.Item `json:"outline"`
}

// Analyzer turns raw files into Reports.
type Analyzer struct {
	Parsers        parser.Config
	WordsPerMinute int
}

// Analyze parses data by filename extension, counts its words and builds the
// outline under opts. Option errors surface before any parsing happens.
func (a *Analyzer) Analyze(data []byte, filename string, opts outline.Options) (*Report, error) {
	filter, err := outline.New(opts)
	if err != nil {
		return nil, err
	}

	p, err := parser.ForFile(filename, a.Parsers)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	return a.Report(doc, filter, ContentHashHex(data)[:16]), nil
}

// Report builds a Report for an already parsed document.
func (a *Analyzer) Report(doc *document.Document, filter *outline.Filter, docID string) *Report {
	counts := wordcount.Breakdown(doc.Text)
	return &Report{
		DocID:          docID,
		Title:          doc.Title,
		Date:           doc.FrontMatter.Date,
		Summary:        doc.FrontMatter.Summary,
		Tags:           doc.FrontMatter.Tags,
		Draft:          doc.FrontMatter.Draft,
		Latin:          counts.Latin,
		Han:            counts.Han,
		Words:          counts.Total,
		ReadingMinutes: int(wordcount.ReadingTime(counts.Total, a.WordsPerMinute).Minutes()),
		Outline:        filter.Apply(doc.Headings),
	}
}

// ContentHashHex returns the hex-encoded SHA-256 of data.
func ContentHashHex(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
