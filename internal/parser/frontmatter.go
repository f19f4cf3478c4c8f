package parser

import (
	"bytes"
	"fmt"

	"github.com/shiddong/blog/internal/document"
	"gopkg.in/yaml.v3"
)

var fmDelim = []byte("---")

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
// Without a closed block the whole input is body.
func splitFrontMatter(src []byte) (header, body []byte, ok bool) {
	first, rest, found := bytes.Cut(src, []byte("\n"))
	if !found || !bytes.Equal(bytes.TrimRight(first, " \t\r"), fmDelim) {
		return nil, src, false
	}

	offset := 0
	for offset <= len(rest) {
		line, _, more := bytes.Cut(rest[offset:], []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fmDelim) {
			end := offset + len(line)
			if more {
				end++
			}
			return rest[:offset], rest[end:], true
		}
		if !more {
			break
		}
		offset += len(line) + 1
	}
	return nil, src, false
}

func parseFrontMatter(header []byte) (document.FrontMatter, error) {
	var fm document.FrontMatter
	if len(bytes.TrimSpace(header)) == 0 {
		return fm, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, nil
}
