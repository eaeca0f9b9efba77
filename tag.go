package tagproc

import (
	"regexp"
	"strings"
	"unicode"
)

// attrPattern matches name="value" or name='value' pairs. Values may
// contain any character except the quote that opened them. Fragments
// that do not match are ignored rather than reported.
var attrPattern = regexp.MustCompile(`(\w+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// parseAttributes extracts an attribute map from the text following a
// tag name. Duplicate keys keep the last occurrence.
func parseAttributes(attrText string) map[string]string {
	attrs := map[string]string{}
	if attrText == "" {
		return attrs
	}
	for _, m := range attrPattern.FindAllStringSubmatch(attrText, -1) {
		// m[2] holds double-quoted values, m[3] single-quoted ones; the
		// unmatched branch is empty, as is an explicitly empty value.
		value := m[2]
		if value == "" {
			value = m[3]
		}
		attrs[m[1]] = value
	}
	return attrs
}

// splitTag separates a tag's interior text into its name and the
// remaining attribute text, splitting on the first run of whitespace.
func splitTag(inner string) (name, attrText string) {
	inner = strings.TrimSpace(inner)
	idx := strings.IndexFunc(inner, unicode.IsSpace)
	if idx < 0 {
		return inner, ""
	}
	return inner[:idx], strings.TrimSpace(inner[idx:])
}

// processCompleteTag classifies a raw tag string, delimiters included,
// and dispatches it. An empty tag name is a no-op.
func (p *Processor) processCompleteTag(raw string) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 {
		return
	}

	switch {
	case strings.HasPrefix(raw, "</"):
		name := strings.TrimSpace(raw[2 : len(raw)-1])
		if name == "" {
			return
		}
		p.handleClosingTag(name)
	case strings.HasSuffix(raw, "/>"):
		name, attrText := splitTag(raw[1 : len(raw)-2])
		if name == "" {
			return
		}
		p.handleSelfClosingTag(name, parseAttributes(attrText))
	default:
		name, attrText := splitTag(raw[1 : len(raw)-1])
		if name == "" {
			return
		}
		p.handleOpeningTag(name, parseAttributes(attrText), raw)
	}
}
