package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shiddong/blog/internal/document"
)

// CSVParser handles CSV files. Every cell, header row included, counts as text.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	rows := make([]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, strings.Join(rec, " "))
	}

	return &document.Document{
		Title: titleFromFilename(filename),
		Text:  strings.Join(rows, "\n"),
	}, nil
}
