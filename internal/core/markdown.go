package core

import (
	"regexp"
	"strings"
)

var (
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	numberedRe   = regexp.MustCompile(`\n?\d+\.\s*`)
	bulletRe     = regexp.MustCompile("\n?[-•]\\s*")
	blankLinesRe = regexp.MustCompile(`\n{2,}`)
)

// CleanMarkdown reduces generated text to plain paragraph prose: emphasis
// markers are stripped keeping their enclosed text, numbered-list and bullet
// markers are removed, and runs of blank lines collapse to a single one.
// Idempotent: cleaning already-clean text changes nothing.
func CleanMarkdown(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = numberedRe.ReplaceAllString(text, "\n")
	text = bulletRe.ReplaceAllString(text, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
