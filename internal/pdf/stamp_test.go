package pdf

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a valid single-page PDF, computing the xref offsets
// as it writes so the fixture stays correct.
func minimalPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 5)

	write := func(obj int, s string) {
		if obj > 0 {
			offsets[obj] = buf.Len()
		}
		buf.WriteString(s)
	}

	write(0, "%PDF-1.4\n")
	write(1, "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	write(2, "2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	write(3, "3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 4 0 R >>\nendobj\n")

	stream := "q Q"
	write(4, fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream))

	xref := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for obj := 1; obj <= 4; obj++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[obj])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)

	return buf.Bytes()
}

func TestStamp_ProducesValidSinglePagePDF(t *testing.T) {
	src := minimalPDF(t)

	stamped, err := SupersededStamper{}.Stamp(src, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, stamped)

	assert.True(t, bytes.HasPrefix(stamped, []byte("%PDF")))
	assert.NotEqual(t, src, stamped)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(stamped), conf)
	require.NoError(t, err)
	require.NoError(t, api.ValidateContext(ctx))
	assert.Equal(t, 1, ctx.PageCount)
}

func TestStamp_RejectsNonPDFInput(t *testing.T) {
	_, err := SupersededStamper{}.Stamp([]byte("this is not a pdf"), time.Now())
	require.Error(t, err)
}
