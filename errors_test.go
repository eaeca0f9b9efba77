package tagproc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	e := newError(ErrOrphanClosing, `found closing tag "x" but no opening tags in stack`, map[string]any{"tag_name": "x"})

	require.Equal(t, `found closing tag "x" but no opening tags in stack: closing tag found but no open tags`, e.Error())
	require.ErrorIs(t, e, ErrOrphanClosing)
	require.Equal(t, "x", e.Context["tag_name"])
}

func TestErrorWithoutCause(t *testing.T) {
	e := &Error{Message: "plain"}

	require.Equal(t, "plain", e.Error())
	require.Nil(t, errors.Unwrap(e))
}

func TestErrorUnwrapChain(t *testing.T) {
	cause := errors.New("boom")
	e := newError(cause, "wrapped", nil)

	require.ErrorIs(t, e, cause)
}

func TestDefaultSinkIsSilent(t *testing.T) {
	// Without an error handler and without debug, faults vanish rather
	// than escape the processing loop.
	p := New()
	require.NotPanics(t, func() {
		p.ProcessString("</orphan>")
	})
}
