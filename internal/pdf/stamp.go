package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const (
	stampText = "SUPERSEDED"
	dateLayout = "02/01/2006"

	// Centered bordered box with the large label, date stamped beneath.
	labelDesc = "fontname:Helvetica-Bold, points:36, scalefactor:1 abs, fillcolor:#CC0000, bgcolor:#FFE6E6, border:3 #CC0000, margins:14, rot:0, opacity:0.7, offset:0 20"
	dateDesc  = "fontname:Helvetica, points:16, scalefactor:1 abs, fillcolor:#800000, rot:0, opacity:0.7, offset:0 -40"
)

// Stamper marks PDF bytes as superseded. It exists as an interface so
// the document service can be exercised without real PDF input.
type Stamper interface {
	Stamp(src []byte, at time.Time) ([]byte, error)
}

// SupersededStamper overlays the superseded marker on page one:
// a semi-transparent bordered rectangle with bold red stamp text, and
// the supersede date in smaller type below it.
type SupersededStamper struct{}

func (SupersededStamper) Stamp(src []byte, at time.Time) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	firstPage := []string{"1"}

	label, err := api.TextWatermark(stampText, labelDesc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("build stamp: %w", err)
	}

	var labeled bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(src), &labeled, firstPage, label, conf); err != nil {
		return nil, fmt.Errorf("apply stamp: %w", err)
	}

	date, err := api.TextWatermark(at.Format(dateLayout), dateDesc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("build date stamp: %w", err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(labeled.Bytes()), &out, firstPage, date, conf); err != nil {
		return nil, fmt.Errorf("apply date stamp: %w", err)
	}

	return out.Bytes(), nil
}
