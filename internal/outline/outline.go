// Package outline turns a flat, document-ordered heading list into a filtered
// list annotated with indent levels, ready to render as an inline table of
// contents.
package outline

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Defaults returned by DefaultOptions.
const (
	DefaultIndentDepth = 3
	DefaultFromHeading = 1
	DefaultToHeading   = 6

	// MaxIndent is the deepest indent step the stepped policy assigns.
	MaxIndent = 3
)

var (
	ErrUnknownPolicy = errors.New("unknown indent policy")
	ErrInvalidRange  = errors.New("invalid heading range")
)

// Heading is one entry of a document's heading list.
type Heading struct {
	Value string `json:"value"`
	Depth int    `json:"depth"`
	URL   string `json:"url"`
}

// Item is a heading that survived filtering, with its indent level.
type Item struct {
	Heading
	Indent int `json:"indent"`
}

// Policy selects how heading depth maps to an indent level.
type Policy string

const (
	// PolicyStepped indents depth 2, 3 and 4-6 by one, two and three steps.
	PolicyStepped Policy = "stepped"
	// PolicyBinary indents headings at IndentDepth or deeper by one step.
	PolicyBinary Policy = "binary"
)

// ParsePolicy resolves a policy name. The empty string means PolicyStepped.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyStepped:
		return PolicyStepped, nil
	case PolicyBinary:
		return PolicyBinary, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p *Policy) UnmarshalText(b []byte) error {
	parsed, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Patterns is a list of exclusion terms. In JSON it may be a single string or
// an array of strings.
type Patterns []string

func (p *Patterns) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*p = Patterns{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("exclude must be a string or a list of strings: %w", err)
	}
	*p = Patterns(many)
	return nil
}

// Options controls filtering and indentation. Fields are used as given; a
// zero bound is a real bound. Start from DefaultOptions and override, or
// decode JSON onto it so absent fields keep their defaults.
type Options struct {
	IndentDepth int      `json:"indentDepth"`
	FromHeading int      `json:"fromHeading"`
	ToHeading   int      `json:"toHeading"`
	Exclude     Patterns `json:"exclude,omitempty"`
	Policy      Policy   `json:"policy,omitempty"`
}

// DefaultOptions returns the options used when a caller supplies none.
func DefaultOptions() Options {
	return Options{
		IndentDepth: DefaultIndentDepth,
		FromHeading: DefaultFromHeading,
		ToHeading:   DefaultToHeading,
		Policy:      PolicyStepped,
	}
}

// Validate reports bounds that can only ever produce an empty or unfiltered
// outline. New does not call it; an inverted range is not an error there.
func (o Options) Validate() error {
	if o.FromHeading < 1 || o.FromHeading > 6 || o.ToHeading < 1 || o.ToHeading > 6 {
		return fmt.Errorf("%w: bounds must be within 1..6, got %d..%d", ErrInvalidRange, o.FromHeading, o.ToHeading)
	}
	if o.FromHeading > o.ToHeading {
		return fmt.Errorf("%w: from %d is greater than to %d", ErrInvalidRange, o.FromHeading, o.ToHeading)
	}
	if _, err := ParsePolicy(string(o.Policy)); err != nil {
		return err
	}
	return nil
}

// ExcludePattern returns the anchored, case-insensitive expression the
// exclusion terms compile to.
func (o Options) ExcludePattern() string {
	return "(?i)^(?:" + strings.Join(o.Exclude, "|") + ")$"
}

// Filter applies one set of Options. It is immutable and safe for concurrent use.
type Filter struct {
	opts    Options
	exclude *regexp.Regexp
}

// New compiles opts. Exclusion terms are used as-is; a term that is not a valid
// expression fails here.
func New(opts Options) (*Filter, error) {
	policy, err := ParsePolicy(string(opts.Policy))
	if err != nil {
		return nil, err
	}
	opts.Policy = policy

	re, err := regexp.Compile(opts.ExcludePattern())
	if err != nil {
		return nil, fmt.Errorf("compile exclude pattern: %w", err)
	}
	return &Filter{opts: opts, exclude: re}, nil
}

// Options returns the options the filter was built from, policy resolved.
func (f *Filter) Options() Options {
	return f.opts
}

// Keep reports whether h belongs in the outline.
func (f *Filter) Keep(h Heading) bool {
	if h.Depth < f.opts.FromHeading || h.Depth > f.opts.ToHeading {
		return false
	}
	return !f.exclude.MatchString(strings.TrimSpace(h.Value))
}

// Indent maps a heading depth to an indent level under the filter's policy.
func (f *Filter) Indent(depth int) int {
	if f.opts.Policy == PolicyBinary {
		if depth >= f.opts.IndentDepth {
			return 1
		}
		return 0
	}
	switch depth {
	case 2:
		return 1
	case 3:
		return 2
	case 4, 5, 6:
		return MaxIndent
	}
	return 0
}

// Apply filters headings in order and annotates the survivors.
func (f *Filter) Apply(headings []Heading) []Item {
	items := make([]Item, 0, len(headings))
	for _, h := range headings {
		if !f.Keep(h) {
			continue
		}
		items = append(items, Item{Heading: h, Indent: f.Indent(h.Depth)})
	}
	return items
}

// Apply is New followed by Filter.Apply.
func Apply(headings []Heading, opts Options) ([]Item, error) {
	f, err := New(opts)
	if err != nil {
		return nil, err
	}
	return f.Apply(headings), nil
}

// Headings drops the indent annotations.
func Headings(items []Item) []Heading {
	out := make([]Heading, len(items))
	for i, it := range items {
		out[i] = it.Heading
	}
	return out
}
