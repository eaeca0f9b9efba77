package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// ChatResponse represents the structure of the response from the chat API.
type ChatResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Process reads SSE lines from body and emits content chunks until the
// stream ends, the context is canceled, or the server sends [DONE]. The
// chunks channel is closed when Process returns.
func (p *Parser) Process(body io.Reader) {
	defer close(p.chunks)
	done := p.ctx.Done()

	reader := bufio.NewReaderSize(body, 4096)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanLines)

	var chunk ChatResponse

	for {
		select {
		case <-done:
			p.chunks <- Chunk{Error: p.ctx.Err()}
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					p.chunks <- Chunk{Error: err}
					return
				}
				p.chunks <- Chunk{Done: true}
				return
			}

			line := scanner.Text()
			if line == "" {
				continue
			}
			if line == "data: [DONE]" {
				p.chunks <- Chunk{Done: true}
				return
			}

			data := strings.TrimPrefix(line, "data: ")
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				p.chunks <- Chunk{Error: err}
				continue
			}

			if len(chunk.Choices) > 0 {
				content := chunk.Choices[0].Delta.Content
				if content == "" {
					content = chunk.Choices[0].Message.Content
				}
				if content != "" {
					p.chunks <- Chunk{Content: content}
				}
			}
		}
	}
}
