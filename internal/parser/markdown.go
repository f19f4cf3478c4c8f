package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/shiddong/blog/internal/document"
	"github.com/shiddong/blog/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &document.Document{Title: titleFromFilename(filename)}

	if header, body, ok := splitFrontMatter(src); ok {
		fm, err := parseFrontMatter(header)
		if err != nil {
			return nil, err
		}
		doc.FrontMatter = fm
		if fm.Title != "" {
			doc.Title = fm.Title
		}
		src = body
	}

	md := goldmark.New(goldmark.WithParserOptions(gmparser.WithAutoHeadingID()))
	pc := gmparser.NewContext(gmparser.WithIDs(newSlugIDs()))
	root := md.Parser().Parse(text.NewReader(src), gmparser.WithContext(pc))

	var buf bytes.Buffer
	newline := func() {
		if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
	}

	// Headings stay flat; nesting is implied by depth.
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				newline()
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			doc.Headings = append(doc.Headings, outline.Heading{
				Value: strings.TrimSpace(string(node.Text(src))),
				Depth: node.Level,
				URL:   headingURL(node),
			})
		case *ast.Text:
			buf.Write(node.Value(src))
			if node.HardLineBreak() || node.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	doc.Text = strings.TrimSpace(buf.String())
	return doc, nil
}

func headingURL(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return "#" + string(id)
	case string:
		return "#" + id
	}
	return ""
}
