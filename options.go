package tagproc

import (
	"log/slog"
	"os"
)

// DefaultAutoProcessThreshold is the number of untagged characters
// accumulated before the untagged handler is invoked automatically.
const DefaultAutoProcessThreshold = 20

// Option configures a Processor at construction time.
type Option func(*Processor)

// WithDebug enables diagnostic logging of registrations, tag lifecycle
// events, and dropped markup.
func WithDebug() Option {
	return func(p *Processor) {
		p.debug = true
		p.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// WithErrorHandler routes every fault record to fn instead of the
// default debug-gated log.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(p *Processor) { p.errorHandler = fn }
}

// WithoutAutoProcess disables automatic flushing of untagged content;
// untagged text is then only dispatched at tag boundaries and on Flush.
func WithoutAutoProcess() Option {
	return func(p *Processor) { p.autoProcess = false }
}

// WithAutoProcessThreshold sets the untagged auto-flush threshold.
// Values below 1 are ignored; use SetAutoProcessThreshold to get the
// validation error.
func WithAutoProcessThreshold(n int) Option {
	return func(p *Processor) {
		if n >= 1 {
			p.threshold = n
		}
	}
}

// SetAutoProcessThreshold changes the untagged auto-flush threshold at
// runtime. The threshold must be a positive integer.
func (p *Processor) SetAutoProcessThreshold(n int) error {
	if n < 1 {
		return newError(ErrInvalidArgument, "threshold must be a positive integer", map[string]any{"threshold": n})
	}
	p.threshold = n
	return nil
}
