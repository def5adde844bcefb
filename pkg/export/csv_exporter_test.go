package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	exporter := NewCSVExporter()

	dataset := Dataset{Headers: []string{"id", "student_name", "amount"}}
	dataset.Append(map[string]string{"id": "f1", "student_name": "Itadori Yuji", "amount": "50000"})
	dataset.Append(map[string]string{"id": "f2", "student_name": "Nobara Kugisaki"})

	out, err := exporter.Render(dataset)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, utf8BOM), "spreadsheet apps need the BOM to detect UTF-8")
	body := string(bytes.TrimPrefix(out, utf8BOM))
	assert.Equal(t, "id,student_name,amount\nf1,Itadori Yuji,50000\nf2,Nobara Kugisaki,\n", body)
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}
