package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/markis/tagproc"
	"github.com/markis/tagproc/internal/config"
)

func plainPipeline(t *testing.T, opts ...tagproc.Option) (*tagproc.Processor, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	renderer := NewTerminalRenderer(&buf, true, 80)
	proc := tagproc.New(opts...)
	require.NoError(t, renderer.Register(proc, []config.Tag{
		{Name: "code", Style: "code", Opaque: true},
		{Name: "thinking", Style: "muted", Opaque: true},
		{Name: "note", Style: "text"},
	}))
	return proc, &buf
}

func TestPlainCodeRendering(t *testing.T) {
	proc, buf := plainPipeline(t)

	proc.ProcessString("<code lang=\"go\">fmt.Println(1)</code>")
	proc.Flush()

	out := buf.String()
	require.Contains(t, out, "```go")
	require.Contains(t, out, "fmt.Println(1)")
}

func TestPlainProseRendering(t *testing.T) {
	proc, buf := plainPipeline(t, tagproc.WithoutAutoProcess())

	proc.ProcessString("Just some explanation.")
	proc.Flush()

	require.Contains(t, buf.String(), "Just some explanation.")
}

func TestPlainProseSplitByAutoFlush(t *testing.T) {
	// With auto-processing at the default threshold, prose longer than
	// the threshold reaches the handler in pieces and each piece is
	// printed on its own line.
	proc, buf := plainPipeline(t)

	proc.ProcessString("Just some explanation.")
	proc.Flush()

	require.Equal(t, "Just some explanation\n.\n", buf.String())
}

func TestMutedSuppressedInPlainMode(t *testing.T) {
	proc, buf := plainPipeline(t)

	proc.ProcessString("<thinking>internal monologue</thinking>")
	proc.Flush()

	require.NotContains(t, buf.String(), "internal monologue")
}

func TestTextStyleRendering(t *testing.T) {
	proc, buf := plainPipeline(t)

	proc.ProcessString("<note>remember this</note>")
	proc.Flush()

	require.Contains(t, buf.String(), "remember this")
}

func TestRegisterRejectsInvalidTag(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewTerminalRenderer(&buf, true, 80)
	proc := tagproc.New()

	err := renderer.Register(proc, []config.Tag{{Name: ""}})
	require.Error(t, err)
}
