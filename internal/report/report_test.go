package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporterLines(t *testing.T) {
	var out, errOut bytes.Buffer
	r := New(&out, &errOut)

	r.Banner()
	r.Project("backend")
	r.Parsing("manifest.tex")
	r.UnknownCommand("customcmd")

	assert.Equal(t,
		"Generating documentation...\n"+
			" -> Generating documentation for backend...\n"+
			"  => Parsing manifest.tex\n",
		out.String())
	assert.Equal(t, "[WARNING] Unknown command: customcmd\n", errOut.String())
}

func TestReporterErrorf(t *testing.T) {
	var out, errOut bytes.Buffer
	New(&out, &errOut).Errorf("failed to read %s", "a.tex")

	assert.Empty(t, out.String())
	assert.Equal(t, "Error: failed to read a.tex\n", errOut.String())
}
