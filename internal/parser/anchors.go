package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	gmparser "github.com/yuin/goldmark/parser"
)

// slugIDs is a goldmark IDs implementation that keeps letters of any script,
// so "安装指南" becomes "安装指南" rather than goldmark's "heading".
// Spaces, hyphens and underscores become '-'; other punctuation is dropped.
type slugIDs struct {
	used map[string]bool
}

func newSlugIDs() *slugIDs {
	return &slugIDs{used: map[string]bool{}}
}

func (s *slugIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	var b strings.Builder
	for _, r := range strings.TrimSpace(string(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}

	base := b.String()
	if base == "" {
		base = "id"
		if kind == ast.KindHeading {
			base = "heading"
		}
	}
	id := base
	for i := 1; s.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	s.used[id] = true
	return []byte(id)
}

func (s *slugIDs) Put(value []byte) {
	s.used[string(value)] = true
}

var _ gmparser.IDs = (*slugIDs)(nil)

// anchors hands out heading URLs with the same slug rules the Markdown parser
// uses, so every format produces URLs of the same shape.
type anchors struct {
	ids gmparser.IDs
}

func newAnchors() *anchors {
	return &anchors{ids: newSlugIDs()}
}

// reserve records an ID already present in the source.
func (a *anchors) reserve(id string) string {
	a.ids.Put([]byte(id))
	return "#" + id
}

// next generates a unique ID for a heading title.
func (a *anchors) next(title string) string {
	return "#" + string(a.ids.Generate([]byte(title), ast.KindHeading))
}
