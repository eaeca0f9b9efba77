// Package render provides the terminal handler set for the tag
// pipeline: tagged content and untagged prose are rendered as they
// complete, markdown-styled unless plain output is requested.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/cli/go-gh/v2/pkg/markdown"

	"github.com/markis/tagproc"
	"github.com/markis/tagproc/internal/config"
)

type TerminalRenderer struct {
	markdown  *glamour.TermRenderer
	plainText bool
	out       io.Writer
}

func NewTerminalRenderer(out io.Writer, usePlainText bool, wrap int) *TerminalRenderer {
	var md *glamour.TermRenderer
	if !usePlainText {
		md, _ = glamour.NewTermRenderer(
			markdown.WithWrap(wrap),
			glamour.WithAutoStyle(),
		)
	}

	return &TerminalRenderer{
		markdown:  md,
		plainText: usePlainText,
		out:       out,
	}
}

// Register installs a handler for each configured tag and the untagged
// prose handler on the processor.
func (t *TerminalRenderer) Register(p *tagproc.Processor, tags []config.Tag) error {
	for _, tag := range tags {
		var opts []tagproc.TagOption
		if tag.Opaque {
			opts = append(opts, tagproc.WithOpaqueContent())
		}
		if err := p.RegisterHandler(tag.Name, t.handlerFor(tag), opts...); err != nil {
			return fmt.Errorf("failed to register tag %q: %w", tag.Name, err)
		}
	}
	p.SetUntaggedContentHandler(t.Prose)
	return nil
}

// handlerFor maps a tag's configured style to a completion handler.
func (t *TerminalRenderer) handlerFor(tag config.Tag) tagproc.Handler {
	switch tag.Style {
	case "code":
		return t.Code
	case "markdown":
		return func(_ map[string]string, content string) {
			t.renderContent(content)
		}
	case "muted":
		return t.Muted
	default:
		return func(_ map[string]string, content string) {
			fmt.Fprintln(t.out, strings.TrimSpace(content))
		}
	}
}

// Code renders tag content as a fenced code block, using the tag's
// lang attribute for syntax highlighting when present.
func (t *TerminalRenderer) Code(attrs map[string]string, content string) {
	lang := attrs["lang"]
	if lang == "" {
		lang = attrs["language"]
	}
	fenced := "```" + lang + "\n" + strings.Trim(content, "\n") + "\n```"
	t.renderContent(fenced)
}

// Muted renders low-priority content, such as model thinking, as a
// blockquote; in plain mode it is suppressed.
func (t *TerminalRenderer) Muted(_ map[string]string, content string) {
	if t.plainText {
		return
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	quoted := "> " + strings.ReplaceAll(content, "\n", "\n> ")
	t.renderContent(quoted)
}

// Prose renders untagged content flowing between tags.
func (t *TerminalRenderer) Prose(content string) {
	t.renderContent(content)
}

func (t *TerminalRenderer) renderContent(content string) {
	if t.plainText || t.markdown == nil {
		fmt.Fprintln(t.out, content)
		return
	}

	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "#") {
		fmt.Fprintln(t.out)
	}

	mdContent, err := t.markdown.Render(content)
	if err != nil {
		fmt.Fprintln(t.out, content)
		return
	}

	fmt.Fprintln(t.out, strings.TrimSpace(mdContent))
}
