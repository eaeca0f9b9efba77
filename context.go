package tagproc

import (
	"strings"
	"time"
)

// TagContext is the runtime record for one open, not-yet-closed tag
// instance. It is owned by the processor's tag stack from push to pop.
type TagContext struct {
	name       string
	attributes map[string]string
	content    strings.Builder
	parent     *TagContext
	startTime  time.Time
	config     *TagConfig
}

func newTagContext(name string, attrs map[string]string, parent *TagContext, config *TagConfig) *TagContext {
	return &TagContext{
		name:       name,
		attributes: attrs,
		parent:     parent,
		startTime:  time.Now(),
		config:     config,
	}
}

// PendingTag describes one tag that is still open on the stack.
type PendingTag struct {
	Name      string
	StartTime time.Time
}

// StackDepth reports how many tags are currently open.
func (p *Processor) StackDepth() int {
	return len(p.stack)
}

// IsInsideTag reports whether any open tag on the stack has the given
// name, not just the innermost one.
func (p *Processor) IsInsideTag(name string) bool {
	for _, ctx := range p.stack {
		if ctx.name == name {
			return true
		}
	}
	return false
}

// PendingTags returns the currently open tags, oldest first.
func (p *Processor) PendingTags() []PendingTag {
	pending := make([]PendingTag, 0, len(p.stack))
	for _, ctx := range p.stack {
		pending = append(pending, PendingTag{Name: ctx.name, StartTime: ctx.startTime})
	}
	return pending
}
