// Package htmldoc splits chapter documents into doctype, head and body
// and puts them back together without re-serializing the user's markup.
package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// SplitResult holds the editable parts of a chapter document.
type SplitResult struct {
	Doctype     string `json:"doctype"`
	HeadContent string `json:"head_content"`
	BodyContent string `json:"body_content"`
	// IsFragment is true when the source had no <html>/<body> wrapper.
	IsFragment bool `json:"is_fragment"`
}

// Split extracts the doctype, head and body of raw.
//
// Head and body are cut out with substring matching so their bytes are
// returned exactly as written. Tag names are matched as literal prefixes:
// "<head" also matches "<headless-x>". Round-trips of existing chapters
// depend on this behaviour, so keep it.
func Split(raw string) SplitResult {
	lower := asciiLower(raw)

	if !strings.Contains(lower, "<html") && !strings.Contains(lower, "<body") {
		return SplitResult{BodyContent: raw, IsFragment: true}
	}

	head, _ := between(raw, lower, "head")
	return SplitResult{
		Doctype:     doctype(raw, lower),
		HeadContent: head,
		BodyContent: body(raw, lower),
		IsFragment:  false,
	}
}

// Reassemble builds a full document from its parts. Fragments are returned
// as the body alone. Attributes on the original <html>, <head> and <body>
// tags are not restored.
func Reassemble(doctype, head, body string, isFragment bool) string {
	if isFragment {
		return body
	}

	var b strings.Builder
	b.Grow(len(doctype) + len(head) + len(body) + 64)
	if doctype != "" {
		b.WriteString(doctype)
		b.WriteByte('\n')
	}
	b.WriteString("<html>\n<head>\n")
	b.WriteString(head)
	if !strings.HasSuffix(head, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func doctype(raw, lower string) string {
	start := strings.Index(lower, "<!doctype")
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(raw[start:], '>')
	if end < 0 {
		return ""
	}
	return raw[start : start+end+1]
}

// between returns the text between the first <tag...> and the following
// </tag>. lower must be asciiLower(raw).
func between(raw, lower, tag string) (string, bool) {
	openStart := strings.Index(lower, "<"+tag)
	if openStart < 0 {
		return "", false
	}
	afterOpen := strings.IndexByte(raw[openStart:], '>')
	if afterOpen < 0 {
		return "", false
	}
	contentStart := openStart + afterOpen + 1

	closeStart := strings.Index(lower[contentStart:], "</"+tag+">")
	if closeStart < 0 {
		return "", false
	}
	return raw[contentStart : contentStart+closeStart], true
}

// body slices the body verbatim when it can. Otherwise it falls back to a
// tolerant parse, whose output is re-serialized and may differ from the
// source in quoting and whitespace.
func body(raw, lower string) string {
	if b, ok := between(raw, lower, "body"); ok {
		return b
	}
	if b, ok := parsedBody(raw); ok {
		return b
	}
	return raw
}

func parsedBody(raw string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", false
	}
	bodyNode := findElement(doc, "body")
	if bodyNode == nil {
		return "", false
	}
	var b strings.Builder
	for c := bodyNode.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", false
		}
	}
	return b.String(), true
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// asciiLower folds only A-Z so every byte offset in the result is valid in
// the original string.
func asciiLower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
