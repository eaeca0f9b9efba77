package tagproc

// Handler processes a completed tag's attributes and accumulated content.
type Handler func(attrs map[string]string, content string)

// StreamingCallback receives each content character of an open tag as it
// arrives, before the tag closes.
type StreamingCallback func(c rune, attrs map[string]string)

// StartCallback fires when an opening or self-closing tag is recognized.
type StartCallback func(name string, attrs map[string]string)

// CompleteCallback fires after a tag's handler has run, with the final
// accumulated content.
type CompleteCallback func(name string, attrs map[string]string, content string)

// TagConfig holds the registered behavior for one tag name. It is
// immutable after registration; the registry maps each tag name to its
// most recent registration.
type TagConfig struct {
	handler         Handler
	streamContent   bool
	processNested   bool
	sameTypeNesting bool

	streamingCallback StreamingCallback
	onStart           StartCallback
	onComplete        CompleteCallback
}

// TagOption customizes a tag registration.
type TagOption func(*TagConfig)

// WithOpaqueContent marks the tag's content as opaque, signalling that
// it should be treated as literal text rather than further markup. The
// flag records intent on the registration; the scanner itself does not
// consult it and still recognizes tag syntax inside the content.
func WithOpaqueContent() TagOption {
	return func(c *TagConfig) { c.processNested = false }
}

// WithSameTypeNesting allows a tag to be opened inside another open tag
// of the same name. Off by default.
func WithSameTypeNesting() TagOption {
	return func(c *TagConfig) { c.sameTypeNesting = true }
}

// WithoutContentStreaming disables per-character streaming for the tag
// even when a streaming callback is registered.
func WithoutContentStreaming() TagOption {
	return func(c *TagConfig) { c.streamContent = false }
}

// WithStreamingCallback registers a per-character content callback.
func WithStreamingCallback(cb StreamingCallback) TagOption {
	return func(c *TagConfig) { c.streamingCallback = cb }
}

// WithStartCallback registers a callback invoked when the tag opens.
func WithStartCallback(cb StartCallback) TagOption {
	return func(c *TagConfig) { c.onStart = cb }
}

// WithCompleteCallback registers a callback invoked after the tag's
// handler, with the final content.
func WithCompleteCallback(cb CompleteCallback) TagOption {
	return func(c *TagConfig) { c.onComplete = cb }
}

// RegisterHandler registers handler for tags named name. Registering the
// same name again replaces the previous configuration. The name must be
// non-empty and the handler non-nil; violations are returned immediately
// as ErrInvalidArgument since they are programmer errors, unlike the
// stream-level faults routed to the error handler.
func (p *Processor) RegisterHandler(name string, handler Handler, opts ...TagOption) error {
	if name == "" {
		return newError(ErrInvalidArgument, "tag name must be a non-empty string", nil)
	}
	if handler == nil {
		return newError(ErrInvalidArgument, "handler must be non-nil", map[string]any{"tag_name": name})
	}

	cfg := &TagConfig{
		handler:       handler,
		streamContent: true,
		processNested: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	p.configs[name] = cfg
	p.debugLog("registered handler", "tag", name)
	return nil
}

// SetUntaggedContentHandler sets the handler for text that falls outside
// any tag. Content is trimmed of surrounding whitespace before dispatch.
// A nil handler disables untagged dispatch; accumulated text is then
// discarded at each flush point.
func (p *Processor) SetUntaggedContentHandler(handler UntaggedContentHandler) {
	p.untaggedHandler = handler
	p.debugLog("set untagged content handler")
}
