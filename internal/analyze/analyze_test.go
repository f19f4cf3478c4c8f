package analyze

import (
	"encoding/json"
	"testing"

	"github.com/shiddong/blog/internal/outline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const post = `---
title: 你好 Go
draft: true
tags: [go]
---

# Intro

hello 你好 world

## Setup

## API

### Details
`

func TestAnalyze_Markdown(t *testing.T) {
	a := &Analyzer{WordsPerMinute: 200}
	opts := outline.DefaultOptions()
	opts.Exclude = outline.Patterns{"setup"}
	rep, err := a.Analyze([]byte(post), "post.md", opts)
	require.NoError(t, err)

	assert.Equal(t, "你好 Go", rep.Title)
	assert.True(t, rep.Draft)
	assert.Len(t, rep.DocID, 16)

	// Headings count as text: Intro hello world Setup API Details, plus 你好.
	assert.Equal(t, 6, rep.Latin)
	assert.Equal(t, 2, rep.Han)
	assert.Equal(t, 8, rep.Words)
	assert.Equal(t, 1, rep.ReadingMinutes)

	require.Len(t, rep.Outline, 3)
	assert.Equal(t, "Intro", rep.Outline[0].Value)
	assert.Equal(t, 0, rep.Outline[0].Indent)
	assert.Equal(t, "API", rep.Outline[1].Value)
	assert.Equal(t, 1, rep.Outline[1].Indent)
	assert.Equal(t, "Details", rep.Outline[2].Value)
	assert.Equal(t, 2, rep.Outline[2].Indent)
}

func TestAnalyze_InvalidPatternBeforeParse(t *testing.T) {
	a := &Analyzer{}
	_, err := a.Analyze([]byte("# x"), "post.unknown", outline.Options{FromHeading: 1, ToHeading: 6, Exclude: outline.Patterns{"(["}})
	assert.ErrorContains(t, err, "compile exclude pattern")
}

func TestAnalyze_UnsupportedExtension(t *testing.T) {
	a := &Analyzer{}
	_, err := a.Analyze([]byte("x"), "image.png", outline.DefaultOptions())
	assert.ErrorContains(t, err, "unsupported file extension")
}

func TestContentHashHexIsStable(t *testing.T) {
	assert.Equal(t, ContentHashHex([]byte("abc")), ContentHashHex([]byte("abc")))
	assert.NotEqual(t, ContentHashHex([]byte("abc")), ContentHashHex([]byte("abd")))
	assert.Len(t, ContentHashHex(nil), 64)
}

func TestReport_JSONIsFlat(t *testing.T) {
	a := &Analyzer{}
	rep, err := a.Analyze([]byte(post), "post.md", outline.DefaultOptions())
	require.NoError(t, err)

	raw, err := json.Marshal(rep)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "你好 Go", fields["title"])
	assert.Equal(t, true, fields["draft"])
	assert.Equal(t, []any{"go"}, fields["tags"])
	assert.NotContains(t, fields, "front_matter")
}
