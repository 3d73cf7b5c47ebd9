package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestLine(t *testing.T) {
	p, _ := newTestPrompter("first\r\nsecond")

	line, err := p.Line()
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = p.Line()
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = p.Line()
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, p.Interactive())
}

func TestAsk(t *testing.T) {
	p, out := newTestPrompter("\n  bob  \n")

	got, err := p.Ask("User", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Contains(t, out.String(), "User [alice]: ")

	got, err = p.Ask("Port", "")
	require.NoError(t, err)
	assert.Equal(t, "bob", got)
	assert.Contains(t, out.String(), "Port: ")
}

func TestAskAndSecret_Clear(t *testing.T) {
	p, _ := newTestPrompter("-\n -  \n-\n")

	got, err := p.Ask("User", "alice")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = p.Ask("Port", "3306")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = p.Secret("Password", "old")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSecret(t *testing.T) {
	p, out := newTestPrompter("\ns3cret\n")

	got, err := p.Secret("Password", "old")
	require.NoError(t, err)
	assert.Equal(t, "old", got)
	assert.NotContains(t, out.String(), "old")

	got, err = p.Secret("Password", "old")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{name: "empty takes default yes", input: "\n", def: true, want: true},
		{name: "empty takes default no", input: "\n", def: false, want: false},
		{name: "yes", input: "YES\n", def: false, want: true},
		{name: "n", input: "n\n", def: true, want: false},
		{name: "retries on junk", input: "maybe\ny\n", def: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			got, err := p.Confirm("Proceed?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirm_EOF(t *testing.T) {
	p, _ := newTestPrompter("")
	_, err := p.Confirm("Proceed?", true)
	assert.ErrorIs(t, err, io.EOF)
}
