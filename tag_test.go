package tagproc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			name: "empty",
			in:   "",
			want: map[string]string{},
		},
		{
			name: "double quoted",
			in:   `lang="go"`,
			want: map[string]string{"lang": "go"},
		},
		{
			name: "single quoted",
			in:   `lang='go'`,
			want: map[string]string{"lang": "go"},
		},
		{
			name: "mixed quoting",
			in:   `a="1" b='2'`,
			want: map[string]string{"a": "1", "b": "2"},
		},
		{
			name: "spaces around equals",
			in:   `a = "1"  b  =  '2'`,
			want: map[string]string{"a": "1", "b": "2"},
		},
		{
			name: "duplicate keys keep last",
			in:   `a="1" a="2"`,
			want: map[string]string{"a": "2"},
		},
		{
			name: "opposite quote inside value",
			in:   `say="it's fine" alt='say "hi"'`,
			want: map[string]string{"say": "it's fine", "alt": `say "hi"`},
		},
		{
			name: "empty value",
			in:   `a="" b='x'`,
			want: map[string]string{"a": "", "b": "x"},
		},
		{
			name: "malformed fragments ignored",
			in:   `a=unquoted ="x" b="ok" dangling`,
			want: map[string]string{"unquoted": "x", "b": "ok"},
		},
		{
			name: "unterminated quote ignored",
			in:   `a="never closes`,
			want: map[string]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, parseAttributes(tc.in))
		})
	}
}

func TestSplitTag(t *testing.T) {
	name, attrText := splitTag(`code lang="go" file="main.go"`)
	require.Equal(t, "code", name)
	require.Equal(t, `lang="go" file="main.go"`, attrText)

	name, attrText = splitTag("code")
	require.Equal(t, "code", name)
	require.Equal(t, "", attrText)

	name, attrText = splitTag("  code  ")
	require.Equal(t, "code", name)
	require.Equal(t, "", attrText)

	name, attrText = splitTag("")
	require.Equal(t, "", name)
	require.Equal(t, "", attrText)
}

func TestEmptyTagIsNoOp(t *testing.T) {
	var errs []*Error
	p := New(collectErrors(&errs))
	rec := &recorder{}
	require.NoError(t, p.RegisterHandler("t", rec.handle))

	p.ProcessString("<></><  /><t>ok</t>")

	require.Empty(t, errs)
	require.Len(t, rec.calls, 1)
	require.Equal(t, "ok", rec.calls[0].content)
}

func TestClosingTagNameTrimmed(t *testing.T) {
	p := New()
	rec := &recorder{}
	require.NoError(t, p.RegisterHandler("basic", rec.handle))

	p.ProcessString("<basic>x</basic >")

	require.Len(t, rec.calls, 1)
	require.Equal(t, "x", rec.calls[0].content)
}

func TestSelfClosingWithoutAttributes(t *testing.T) {
	p := New()
	rec := &recorder{}
	require.NoError(t, p.RegisterHandler("br", rec.handle))

	p.ProcessString("<br/><br />")

	require.Len(t, rec.calls, 2)
	require.Equal(t, "", rec.calls[0].content)
	require.Empty(t, rec.calls[0].attrs)
}

func TestUnregisteredSelfClosingIsDropped(t *testing.T) {
	var errs []*Error
	p := New(collectErrors(&errs))

	p.ProcessString("<hr/>")

	require.Empty(t, errs)
	require.Equal(t, 0, p.StackDepth())
}
