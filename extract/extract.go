// Package extract isolates the translatable parts of a Slack message: it
// strips configured request preambles and protects :shortcode: emoji tokens
// so the translation backend never sees or alters them.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var shortcodeRegex = regexp.MustCompile(`:[A-Za-z0-9_+'\-]+:`)

// SegmentKind tags a segment as translatable text or a protected shortcode.
type SegmentKind string

const (
	SegmentPlain     SegmentKind = "plain"
	SegmentShortcode SegmentKind = "shortcode"
)

// Segment is one ordered piece of a message.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Split segments text into an ordered sequence of plain and shortcode
// segments. Reassembling the segments in order yields the input unchanged.
func Split(text string) []Segment {
	var segments []Segment
	rest := text
	for {
		loc := shortcodeRegex.FindStringIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			segments = append(segments, Segment{Kind: SegmentPlain, Text: rest[:loc[0]]})
		}
		segments = append(segments, Segment{Kind: SegmentShortcode, Text: rest[loc[0]:loc[1]]})
		rest = rest[loc[1]:]
	}
	if rest != "" {
		segments = append(segments, Segment{Kind: SegmentPlain, Text: rest})
	}
	return segments
}

// Reassemble concatenates segments back into one string in their original
// order.
func Reassemble(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// HasTranslatableText reports whether text contains any plain content beyond
// shortcodes and whitespace.
func HasTranslatableText(text string) bool {
	for _, seg := range Split(text) {
		if seg.Kind == SegmentPlain && strings.TrimSpace(seg.Text) != "" {
			return true
		}
	}
	return false
}

// ForTranslation replaces each shortcode with an indexed placeholder that
// survives translation untouched, returning the prepared text and the
// shortcodes in order of appearance. RestoreShortcodes reverses it.
func ForTranslation(text string) (string, []string) {
	var sb strings.Builder
	var shortcodes []string
	for _, seg := range Split(text) {
		if seg.Kind == SegmentShortcode {
			sb.WriteString(placeholder(len(shortcodes)))
			shortcodes = append(shortcodes, seg.Text)
			continue
		}
		sb.WriteString(seg.Text)
	}
	return sb.String(), shortcodes
}

// RestoreShortcodes puts the original shortcode tokens back in place of their
// placeholders after translation.
func RestoreShortcodes(text string, shortcodes []string) string {
	for i, code := range shortcodes {
		text = strings.ReplaceAll(text, placeholder(i), code)
	}
	return text
}

func placeholder(index int) string {
	return fmt.Sprintf("EMOJISLACK%dX", index)
}

// StripPreamble discards everything up to and including the first matching
// preamble phrase. Matching is case-insensitive and phrases are expected
// longest-first. When no phrase matches, or nothing remains after the phrase,
// the full text is returned.
func StripPreamble(text string, phrases []string) string {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		idx := strings.Index(lower, strings.ToLower(phrase))
		if idx < 0 {
			continue
		}
		remainder := strings.TrimSpace(text[idx+len(phrase):])
		if remainder == "" {
			return text
		}
		return remainder
	}
	return text
}

// SplitHeadlineBody splits text at the first newline so headline and body can
// be translated separately and keep their own lines. Body is empty for a
// single-line message.
func SplitHeadlineBody(text string) (string, string) {
	headline, body, found := strings.Cut(text, "\n")
	if !found {
		return strings.TrimSpace(headline), ""
	}
	return strings.TrimSpace(headline), strings.TrimSpace(body)
}
