package stream

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, body string) []Chunk {
	t.Helper()

	p := NewParser(context.Background())
	go p.Process(strings.NewReader(body))

	var chunks []Chunk
	for chunk := range p.Chunks() {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestProcessDeltaChunks(t *testing.T) {
	body := `data: {"choices":[{"delta":{"content":"Hel"}}]}

data: {"choices":[{"delta":{"content":"lo"}}]}

data: [DONE]
`
	chunks := collect(t, body)

	require.Len(t, chunks, 3)
	require.Equal(t, "Hel", chunks[0].Content)
	require.Equal(t, "lo", chunks[1].Content)
	require.True(t, chunks[2].Done)
}

func TestProcessMessageFallback(t *testing.T) {
	body := `data: {"choices":[{"message":{"content":"whole reply"}}]}
`
	chunks := collect(t, body)

	require.Len(t, chunks, 2)
	require.Equal(t, "whole reply", chunks[0].Content)
	require.True(t, chunks[1].Done)
}

func TestProcessMalformedLineReported(t *testing.T) {
	body := `data: {not json}
data: {"choices":[{"delta":{"content":"ok"}}]}
`
	chunks := collect(t, body)

	require.Len(t, chunks, 3)
	require.Error(t, chunks[0].Error)
	require.Equal(t, "ok", chunks[1].Content)
	require.True(t, chunks[2].Done)
}

func TestProcessCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewParser(ctx)
	go p.Process(strings.NewReader(""))

	// A canceled context terminates the stream; depending on select
	// ordering the final chunk is either the context error or the
	// end-of-input marker, but the channel always closes.
	var chunks []Chunk
	for chunk := range p.Chunks() {
		chunks = append(chunks, chunk)
	}
	require.Len(t, chunks, 1)
	if chunks[0].Error != nil {
		require.ErrorIs(t, chunks[0].Error, context.Canceled)
	} else {
		require.True(t, chunks[0].Done)
	}
}

func TestProcessEmptyChoicesSkipped(t *testing.T) {
	body := `data: {"choices":[]}
`
	chunks := collect(t, body)

	require.Len(t, chunks, 1)
	require.True(t, chunks[0].Done)
}
