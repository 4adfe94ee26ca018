package loader

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML reduces an HTML document to its visible text: script and style
// subtrees are dropped, all tags are removed, and whitespace is collapsed to
// single spaces. Plain text input passes through with only the whitespace
// collapse applied.
func StripHTML(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isSkippedTag(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isSkippedTag(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isSkippedTag(name []byte) bool {
	tag := string(name)
	return tag == "script" || tag == "style"
}
