package document

import "github.com/shiddong/blog/internal/outline"

// Document is a parsed source file reduced to what the text metrics and the
// inline outline need.
type Document struct {
	Title       string            // From front matter, <title>, or the filename
	Text        string            // Plain text used for word counting
	Headings    []outline.Heading // Flat, in document order
	FrontMatter FrontMatter
}

// FrontMatter holds the YAML header of a Markdown post.
type FrontMatter struct {
	Title   string   `yaml:"title" json:"title,omitempty"`
	Date    string   `yaml:"date" json:"date,omitempty"`
	Summary string   `yaml:"summary" json:"summary,omitempty"`
	Tags    []string `yaml:"tags" json:"tags,omitempty"`
	Draft   bool     `yaml:"draft" json:"draft"`
}
