package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Run abc",
		Notes:   []string{"scope: all"},
		Headers: []string{"batch", "subject", "reason"},
		Rows: [][]string{
			{"CSE-A", "Physics", "NO_FREE_SLOT"},
			{"CSE-B", "Art, Design", "NO_QUALIFIED_TEACHER"},
		},
	}
}

func TestCSVExporter(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "batch,subject,reason\nCSE-A,Physics,NO_FREE_SLOT\nCSE-B,\"Art, Design\",NO_QUALIFIED_TEACHER\n", string(out))
}

func TestPDFExporter(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"only one"})

	_, err := RendererFor(FormatCSV).Render(table)
	assert.Error(t, err)
	_, err = RendererFor(FormatPDF).Render(Table{})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}
