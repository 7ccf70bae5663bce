package qwant

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// tagPattern matches anything from '<' to the nearest following '>',
// newlines included.
var tagPattern = regexp.MustCompile(`(?s)<.*?>`)

// StripTags removes every non-greedy <...> span from s. "<a<b>" is removed
// as a single span.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// EscapeText renders s with control, quote, backslash and non-ASCII runes
// escaped: \t \r \n \\ \' \" and \u{hex} for the rest.
func EscapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\\' || r == '\'' || r == '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 0x20 && r <= 0x7e:
			b.WriteRune(r)
		default:
			b.WriteString(`\u{`)
			b.WriteString(strconv.FormatInt(int64(r), 16))
			b.WriteByte('}')
		}
	}
	return b.String()
}

// Sanitizer cleans one free-text field.
type Sanitizer interface {
	Sanitize(s string) string
}

// TagStripper removes tags with the non-greedy pattern. With Escape set, the
// stripped text is also passed through EscapeText.
type TagStripper struct {
	Escape bool
}

func (t TagStripper) Sanitize(s string) string {
	s = StripTags(s)
	if t.Escape {
		s = EscapeText(s)
	}
	return s
}

// maxPolicyPasses bounds the sanitize/unescape loop in PolicyStripper.
const maxPolicyPasses = 8

// PolicyStripper runs text through bluemonday's strict policy, which parses
// the markup instead of pattern matching it, and unescapes the entities the
// policy leaves behind. Escaped tags in the input ("&lt;b&gt;") are removed
// as well: the result never contains markup the policy would strip.
type PolicyStripper struct {
	policy *bluemonday.Policy
}

func NewPolicyStripper() *PolicyStripper {
	return &PolicyStripper{policy: bluemonday.StrictPolicy()}
}

func (p *PolicyStripper) Sanitize(s string) string {
	for range maxPolicyPasses {
		out := html.UnescapeString(p.policy.Sanitize(s))
		if out == s {
			return out
		}
		s = out
	}
	// still changing: keep the policy output escaped
	return p.policy.Sanitize(s)
}

// Sanitize returns a copy of p with every item sanitized. URL and Offset are
// kept; Raw still holds the body as received.
func (p *Page) Sanitize(s Sanitizer) *Page {
	out := *p
	out.Envelope = p.Envelope.Sanitize(s)
	out.Raw = append(json.RawMessage(nil), p.Raw...)
	return &out
}

// StripMarkup returns a copy of it with tags removed from the title,
// description and short description.
func StripMarkup(it Item) Item {
	return it.Sanitize(TagStripper{})
}

// Sanitize returns a copy of it with s applied to Title, Desc and DescShort
// (when set). it itself is not modified.
func (it Item) Sanitize(s Sanitizer) Item {
	out := it.clone()
	out.Title = s.Sanitize(it.Title)
	out.Desc = s.Sanitize(it.Desc)
	if short, ok := it.DescShort.Get(); ok {
		out.DescShort = Some(s.Sanitize(short))
	}
	return out
}

// Sanitize returns a deep copy of e with every item sanitized.
func (e Envelope) Sanitize(s Sanitizer) Envelope {
	out := e.clone()
	if out.Data == nil {
		return out
	}
	for i, it := range out.Data.Result.Items {
		out.Data.Result.Items[i] = it.Sanitize(s)
	}
	return out
}
