package export

import (
	"strings"
	"testing"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/stretchr/testify/assert"
)

func TestApplyPageSize(t *testing.T) {
	tests := []struct {
		name string
		size string
		want []string
	}{
		{"letter by default", "", []string{"--page-size", "Letter"}},
		{"a4", "a4", []string{"--page-size", "A4"}},
		{"kindle is half letter", "kindle", []string{"--page-width", "140", "--page-height", "216"}},
		{"case insensitive", "KINDLE", []string{"--page-width", "140", "--page-height", "216"}},
		{"unknown falls back to letter", "tabloid", []string{"--page-size", "Letter"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfg := wkhtmltopdf.NewPDFPreparer()
			applyPageSize(pdfg, tt.size)
			args := strings.Join(pdfg.Args(), " ")
			assert.Contains(t, args, strings.Join(tt.want, " "))
		})
	}
}

func TestApplyMargins(t *testing.T) {
	pdfg := wkhtmltopdf.NewPDFPreparer()
	applyMargins(pdfg)
	args := strings.Join(pdfg.Args(), " ")

	for _, side := range []string{"top", "bottom", "left", "right"} {
		assert.Contains(t, args, "--margin-"+side+" 25.4mm")
	}
}
