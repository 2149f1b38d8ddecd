package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

const (
	margin        = 20.0
	headingSize   = 22.0
	bodySize      = 15.0
	textBlockSize = 90
)

var parseFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

func fontFace(size float64) (font.Face, error) {
	f, err := parseFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// Snapshot renders the whole dashboard for one selection as a single PNG: the
// monthly chart, the threshold finding, and the comparison chart with its caption.
func Snapshot(w io.Writer, snap domain.Snapshot, opts Options) error {
	opts = opts.withDefaults()

	monthly, err := chartImage(func(buf io.Writer) error { return MonthlyChart(buf, snap.Monthly, opts) })
	if err != nil {
		return err
	}
	comparison, err := chartImage(func(buf io.Writer) error { return ComparisonChart(buf, snap.Comparison, opts) })
	if err != nil {
		return err
	}

	width := opts.Width
	height := 2*opts.Height + 3*textBlockSize
	dc := gg.NewContext(width, height)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	heading, err := fontFace(headingSize)
	if err != nil {
		return err
	}
	body, err := fontFace(bodySize)
	if err != nil {
		return err
	}
	textWidth := float64(width) - 2*margin

	top := 0
	dc.SetHexColor("#000000")
	dc.SetFontFace(heading)
	dc.DrawStringAnchored(MonthlyHeading, margin, float64(top)+textBlockSize/2, 0, 0.5)
	top += textBlockSize

	drawChartOrMessage(dc, monthly, NoMonthlyDataMessage(snap.Monthly.Year), body, top, opts)
	top += opts.Height

	dc.SetHexColor("#000000")
	dc.SetFontFace(heading)
	dc.DrawStringAnchored(WarmYearHeading(snap.Warm.Threshold), margin, float64(top)+textBlockSize/3, 0, 0.5)
	dc.SetFontFace(body)
	dc.DrawStringWrapped(WarmYearSentence(snap.Warm), margin, float64(top)+2*textBlockSize/3, 0, 0.5, textWidth, 1.4, gg.AlignLeft)
	top += textBlockSize

	drawChartOrMessage(dc, comparison, ComparisonSummary(snap.Comparison), body, top, opts)
	top += opts.Height

	dc.SetHexColor("#333333")
	dc.SetFontFace(body)
	dc.DrawStringWrapped(ComparisonCaption(snap.Comparison), margin, float64(top)+margin/2, 0, 0, textWidth, 1.4, gg.AlignLeft)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	return nil
}

// chartImage renders a chart and decodes it back into an image. A chart with
// no data yields a nil image and no error.
func chartImage(draw func(io.Writer) error) (image.Image, error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		if errors.Is(err, ErrNoData) {
			return nil, nil
		}
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}

func drawChartOrMessage(dc *gg.Context, img image.Image, message string, face font.Face, top int, opts Options) {
	if img != nil {
		dc.DrawImage(img, 0, top)
		return
	}
	dc.SetHexColor("#f2f2f2")
	dc.DrawRectangle(margin, float64(top), float64(opts.Width)-2*margin, float64(opts.Height))
	dc.Fill()
	dc.SetHexColor("#666666")
	dc.SetFontFace(face)
	dc.DrawStringAnchored(message, float64(opts.Width)/2, float64(top+opts.Height/2), 0.5, 0.5)
}
