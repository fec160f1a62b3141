// Package plot renders the leaderboard and score-distribution images
// the bot attaches to ranking replies. Charts use a dark theme and
// return encoded PNG bytes.
package plot

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	chartWidth  = 900
	chartHeight = 600
	marginLeft  = 150
	marginRight = 40
	marginTop   = 70
	marginBot   = 60

	colorBackground = "#2E2E2E"
	colorPanel      = "#3C3C3C"
	colorGrid       = "#555555"
	colorText       = "#DDDDDD"
	colorPrimary    = "#BBBBBB"
	colorHighlight  = "#DDD128"
)

// ScatterPoint is one user's position on an IQ/purity scatter chart.
type ScatterPoint struct {
	UserID int64
	Label  string
	IQ     float64
	Purity float64
}

// Bar is one entry of a horizontal leaderboard chart.
type Bar struct {
	UserID int64
	Label  string
	Value  float64
}

// Renderer draws charts with a shared font configuration. A Renderer
// without fonts still draws geometry but omits text.
type Renderer struct {
	logger    *slog.Logger
	titleFace font.Face
	labelFace font.Face
}

// NewRenderer loads the chart fonts from fontPath. An empty path is
// allowed and produces label-free charts.
func NewRenderer(fontPath string, logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{logger: logger}
	if fontPath == "" {
		logger.Warn("No chart font configured, rendering without labels")
		return r, nil
	}

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	r.titleFace = truetype.NewFace(parsed, &truetype.Options{Size: 22, DPI: 72, Hinting: font.HintingNone})
	r.labelFace = truetype.NewFace(parsed, &truetype.Options{Size: 14, DPI: 72, Hinting: font.HintingNone})
	return r, nil
}

// Scatter draws IQ against purity for a guild's users. The row whose
// UserID equals highlightID is drawn in the accent color.
func (r *Renderer) Scatter(points []ScatterPoint, highlightID int64, title string) ([]byte, error) {
	dc := gg.NewContext(chartWidth, chartHeight)
	r.drawPanel(dc, title)

	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(chartHeight - marginTop - marginBot)

	// Fixed axes: IQ 0..200 on x, purity 0..100 on y.
	toX := func(iq float64) float64 { return marginLeft + iq/200.0*plotW }
	toY := func(purity float64) float64 { return marginTop + plotH - purity/100.0*plotH }

	dc.SetHexColor(colorGrid)
	dc.SetLineWidth(1)
	for iq := 0.0; iq <= 200.0; iq += 50.0 {
		dc.DrawLine(toX(iq), marginTop, toX(iq), marginTop+plotH)
		dc.Stroke()
		r.drawLabel(dc, fmt.Sprintf("%.0f", iq), toX(iq), marginTop+plotH+20, 0.5)
	}
	for purity := 0.0; purity <= 100.0; purity += 25.0 {
		dc.DrawLine(marginLeft, toY(purity), marginLeft+plotW, toY(purity))
		dc.Stroke()
		r.drawLabel(dc, fmt.Sprintf("%.0f%%", purity), marginLeft-10, toY(purity), 1.0)
	}

	for _, p := range points {
		x, y := toX(clamp(p.IQ, 0, 200)), toY(clamp(p.Purity, 0, 100))
		if p.UserID == highlightID {
			dc.SetHexColor(colorHighlight)
			dc.DrawCircle(x, y, 8)
		} else {
			dc.SetHexColor(colorPrimary)
			dc.DrawCircle(x, y, 5)
		}
		dc.Fill()
		if p.UserID == highlightID && p.Label != "" {
			dc.SetHexColor(colorHighlight)
			r.drawLabel(dc, p.Label, x, y-14, 0.5)
		}
	}

	return encodePNG(dc)
}

// BarChart draws a horizontal leaderboard, top entry first. The row
// whose UserID equals highlightID is drawn in the accent color.
// valueSuffix is appended to the printed value, e.g. "%" for rates.
func (r *Renderer) BarChart(bars []Bar, highlightID int64, title, valueSuffix string) ([]byte, error) {
	dc := gg.NewContext(chartWidth, chartHeight)
	r.drawPanel(dc, title)

	if len(bars) == 0 {
		r.drawLabel(dc, "No data yet", chartWidth/2, chartHeight/2, 0.5)
		return encodePNG(dc)
	}

	maxVal := bars[0].Value
	for _, b := range bars {
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(chartHeight - marginTop - marginBot)
	slot := plotH / float64(len(bars))
	barH := math.Min(slot*0.7, 40)

	for i, b := range bars {
		y := marginTop + slot*float64(i) + (slot-barH)/2
		w := b.Value / maxVal * plotW

		if b.UserID == highlightID {
			dc.SetHexColor(colorHighlight)
		} else {
			dc.SetHexColor(colorPrimary)
		}
		dc.DrawRoundedRectangle(marginLeft, y, w, barH, 4)
		dc.Fill()

		r.drawLabel(dc, b.Label, marginLeft-10, y+barH/2, 1.0)
		r.drawLabel(dc, trimFloat(b.Value)+valueSuffix, marginLeft+w+8, y+barH/2, 0.0)
	}

	return encodePNG(dc)
}

func (r *Renderer) drawPanel(dc *gg.Context, title string) {
	dc.SetHexColor(colorBackground)
	dc.Clear()

	dc.SetHexColor(colorPanel)
	dc.DrawRectangle(marginLeft, marginTop,
		float64(chartWidth-marginLeft-marginRight), float64(chartHeight-marginTop-marginBot))
	dc.Fill()

	if r.titleFace != nil && title != "" {
		dc.SetFontFace(r.titleFace)
		dc.SetHexColor(colorText)
		dc.DrawStringAnchored(title, chartWidth/2, marginTop/2, 0.5, 0.5)
	}
}

func (r *Renderer) drawLabel(dc *gg.Context, text string, x, y, ax float64) {
	if r.labelFace == nil || text == "" {
		return
	}
	dc.SetFontFace(r.labelFace)
	dc.SetHexColor(colorText)
	dc.DrawStringAnchored(text, x, y, ax, 0.5)
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// trimFloat prints integers without a decimal part and everything
// else with one digit.
func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
