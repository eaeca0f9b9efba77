package stream

import "context"

// Chunk is one piece of model output content, or the end-of-stream
// marker, or an error.
type Chunk struct {
	Content string
	Done    bool
	Error   error
}

// Parser turns a raw server-sent-event response body into content
// chunks suitable for feeding a tag processor token by token.
type Parser struct {
	ctx    context.Context
	chunks chan Chunk
}

func NewParser(ctx context.Context) *Parser {
	return &Parser{
		ctx:    ctx,
		chunks: make(chan Chunk),
	}
}

func (p *Parser) Chunks() <-chan Chunk {
	return p.chunks
}
