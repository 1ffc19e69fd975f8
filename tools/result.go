package tools

import "strings"

const ContentTypeText = "text"

// Content is one block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the outcome of a successful invocation. Functional failures
// such as a malformed expression are still Results; only hard errors are
// returned as Go errors.
type Result struct {
	Content []Content `json:"content"`
}

// TextResult wraps text in a single text block.
func TextResult(text string) *Result {
	return &Result{
		Content: []Content{{Type: ContentTypeText, Text: text}},
	}
}

// Text concatenates the text blocks of r.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range r.Content {
		if c.Type == ContentTypeText {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}
