// Package tagproc incrementally parses text that mixes prose with
// XML-like tags, dispatching each tag's attributes and content to a
// registered handler as soon as the tag closes. It is built to consume
// the token-by-token output of a language model: tags are recognized
// across arbitrary chunk boundaries without buffering the whole
// response, and malformed markup degrades instead of aborting the
// stream.
package tagproc

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Processor is a streaming tag parser. Each instance owns its own tag
// stack, buffers, and handler registry; instances share nothing.
//
// All methods are synchronous and must be called from a single
// goroutine. Handlers must not call back into the processor that
// invoked them; re-entrant calls mutate live parser state and their
// behavior is undefined.
type Processor struct {
	configs map[string]*TagConfig
	stack   []*TagContext

	untagged   []rune
	inTag      bool
	currentTag strings.Builder
	jsonDepth  int
	inQuotes   bool
	quoteChar  rune

	untaggedHandler UntaggedContentHandler
	errorHandler    ErrorHandler

	debug       bool
	log         *slog.Logger
	autoProcess bool
	threshold   int
}

// UntaggedContentHandler receives text that lies outside any tag.
type UntaggedContentHandler func(content string)

// New creates a Processor. By default untagged content is auto-flushed
// after DefaultAutoProcessThreshold characters, debug logging is off,
// and fault records go to a debug-gated log.
func New(opts ...Option) *Processor {
	p := &Processor{
		configs:     make(map[string]*TagConfig),
		autoProcess: true,
		threshold:   DefaultAutoProcessThreshold,
		log:         slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessToken feeds one chunk of streamed text through the parser.
// Empty and whitespace-only tokens are ignored entirely, so whitespace
// that matters must arrive attached to other characters in its token.
// No fault encountered while parsing escapes this call; everything is
// routed to the error handler.
func (p *Processor) ProcessToken(token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	for _, c := range token {
		p.processChar(c)
	}
}

// ProcessTokens applies ProcessToken to each token in order.
func (p *Processor) ProcessTokens(tokens []string) {
	for _, token := range tokens {
		p.ProcessToken(token)
	}
}

// ProcessString processes a complete document as a single token.
func (p *Processor) ProcessString(content string) {
	p.ProcessToken(content)
}

// processChar advances the parser state machine by one character.
func (p *Processor) processChar(c rune) {
	// Quote tracking only applies inside JSON-shaped content. The same
	// character that opened a quoted run must close it. Backslash
	// escapes are deliberately not handled; see the package tests for
	// the pinned boundary behavior.
	if (c == '"' || c == '\'') && p.jsonDepth > 0 {
		switch {
		case !p.inQuotes:
			p.inQuotes = true
			p.quoteChar = c
		case c == p.quoteChar:
			p.inQuotes = false
			p.quoteChar = 0
		}
	}

	if !p.inQuotes {
		switch c {
		case '{':
			p.jsonDepth++
		case '}':
			if p.jsonDepth > 0 {
				p.jsonDepth--
			}
		}
	}

	// A '<' opens a tag only outside quoted and JSON-shaped content.
	if c == '<' && !p.inQuotes && p.jsonDepth == 0 {
		if len(p.untagged) > 0 {
			p.flushUntagged()
		}
		p.inTag = true
		p.currentTag.Reset()
		p.currentTag.WriteRune(c)
		return
	}

	if p.inTag {
		p.currentTag.WriteRune(c)
		if c == '>' {
			raw := p.currentTag.String()
			p.inTag = false
			p.currentTag.Reset()
			p.processCompleteTag(raw)
		}
	} else if len(p.stack) > 0 {
		ctx := p.stack[len(p.stack)-1]
		ctx.content.WriteRune(c)

		if ctx.config.streamContent && ctx.config.streamingCallback != nil {
			p.invoke("streaming callback", ctx.name, ctx.attributes, map[string]any{"char": string(c)}, func() {
				ctx.config.streamingCallback(c, ctx.attributes)
			})
		}
	} else {
		p.untagged = append(p.untagged, c)
	}

	if p.autoProcess && len(p.untagged) > p.threshold {
		p.flushUntagged()
	}
}

// handleOpeningTag pushes a context for a registered tag. Unregistered
// tags are dropped with a diagnostic. An illegal same-type nesting is
// reported and the rejected tag's raw text degrades to content of the
// innermost open tag.
func (p *Processor) handleOpeningTag(name string, attrs map[string]string, raw string) {
	config, ok := p.configs[name]
	if !ok {
		p.debugLog("unregistered tag type", "tag", name)
		return
	}

	if !config.sameTypeNesting && p.IsInsideTag(name) {
		p.report(newError(ErrSelfNesting, fmt.Sprintf("tag %q cannot be nested within itself", name), map[string]any{
			"tag_name":   name,
			"attributes": attrs,
		}))
		if len(p.stack) > 0 {
			p.stack[len(p.stack)-1].content.WriteString(raw)
		}
		return
	}

	var parent *TagContext
	if len(p.stack) > 0 {
		parent = p.stack[len(p.stack)-1]
	}
	ctx := newTagContext(name, attrs, parent, config)

	if config.onStart != nil {
		p.invoke("tag start callback", name, attrs, nil, func() {
			config.onStart(name, attrs)
		})
	}

	p.stack = append(p.stack, ctx)
	p.debugLog("started tag", "tag", name)
}

// handleSelfClosingTag runs the full lifecycle with empty content and
// never touches the stack. Each callback is fault-isolated so one
// failure does not suppress the next.
func (p *Processor) handleSelfClosingTag(name string, attrs map[string]string) {
	config, ok := p.configs[name]
	if !ok {
		p.debugLog("unregistered tag type", "tag", name)
		return
	}

	p.debugLog("processing self-closing tag", "tag", name)

	if config.onStart != nil {
		p.invoke("tag start callback", name, attrs, nil, func() {
			config.onStart(name, attrs)
		})
	}
	p.invoke("tag handler", name, attrs, nil, func() {
		config.handler(attrs, "")
	})
	if config.onComplete != nil {
		p.invoke("tag complete callback", name, attrs, nil, func() {
			config.onComplete(name, attrs, "")
		})
	}
}

// handleClosingTag pops the matching context and dispatches its
// handlers. An orphan or mismatched closing tag is reported and
// dropped; a mismatch leaves the stack untouched so later well-formed
// closes still resolve.
func (p *Processor) handleClosingTag(name string) {
	if len(p.stack) == 0 {
		p.report(newError(ErrOrphanClosing, fmt.Sprintf("found closing tag %q but no opening tags in stack", name), map[string]any{
			"tag_name": name,
		}))
		return
	}

	top := p.stack[len(p.stack)-1]
	if top.name != name {
		p.report(newError(ErrMismatchedClose, fmt.Sprintf("mismatched closing tag: expected %q, got %q", top.name, name), map[string]any{
			"expected": top.name,
			"received": name,
		}))
		return
	}

	p.stack = p.stack[:len(p.stack)-1]
	content := top.content.String()
	p.debugLog("completed tag", "tag", name)

	p.invoke("tag handler", name, top.attributes, nil, func() {
		top.config.handler(top.attributes, content)
	})
	if top.config.onComplete != nil {
		p.invoke("tag complete callback", name, top.attributes, nil, func() {
			top.config.onComplete(name, top.attributes, content)
		})
	}
}

// flushUntagged dispatches accumulated untagged text, trimmed of
// surrounding whitespace, and clears the buffer whether or not a
// handler fired.
func (p *Processor) flushUntagged() {
	text := strings.TrimSpace(string(p.untagged))
	p.untagged = p.untagged[:0]
	if text == "" || p.untaggedHandler == nil {
		return
	}
	p.invoke("untagged content handler", "", nil, map[string]any{"content_preview": preview(text)}, func() {
		p.untaggedHandler(text)
	})
	p.debugLog("processed untagged content", "chars", len(text))
}

// Flush forces pending untagged content through its handler and logs a
// diagnostic for any tags still open. Open tags are left on the stack.
func (p *Processor) Flush() {
	if len(p.untagged) > 0 {
		p.flushUntagged()
	}
	if len(p.stack) > 0 {
		names := make([]string, 0, len(p.stack))
		for _, ctx := range p.stack {
			names = append(names, ctx.name)
		}
		p.debugLog("unclosed tags remain in stack", "tags", names)
	}
}

// Reset returns all mutable parser state to its initial value. Handler
// registrations and options are kept.
func (p *Processor) Reset() {
	p.stack = nil
	p.untagged = nil
	p.inTag = false
	p.currentTag.Reset()
	p.jsonDepth = 0
	p.inQuotes = false
	p.quoteChar = 0
	p.debugLog("processor reset")
}

// invoke runs a user callback, recovering any panic into a fault record
// carrying the tag name, attributes, and extra context.
func (p *Processor) invoke(what, tagName string, attrs map[string]string, extra map[string]any, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		cause, ok := r.(error)
		if !ok {
			cause = fmt.Errorf("%v", r)
		}
		cause = fmt.Errorf("%w: %w", ErrCallbackPanic, cause)
		ctx := map[string]any{"panic": cause.Error()}
		if tagName != "" {
			ctx["tag_name"] = tagName
		}
		if attrs != nil {
			ctx["attributes"] = attrs
		}
		for k, v := range extra {
			ctx[k] = v
		}
		p.report(&Error{Message: "error in " + what, Context: ctx, err: cause})
	}()
	fn()
}

// report routes a fault record to the configured sink, or to the
// debug-gated log when no sink is set. Faults never propagate to the
// caller of the processing methods.
func (p *Processor) report(e *Error) {
	if p.errorHandler != nil {
		p.errorHandler(e)
		return
	}
	if p.debug {
		args := make([]any, 0, len(e.Context)*2)
		for k, v := range e.Context {
			args = append(args, k, v)
		}
		p.log.Error(e.Error(), args...)
	}
}

func (p *Processor) debugLog(msg string, args ...any) {
	if !p.debug {
		return
	}
	p.log.Debug(msg, args...)
}

// preview truncates text for inclusion in fault records.
func preview(text string) string {
	const limit = 100
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
