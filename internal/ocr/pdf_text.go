package ocr

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	footerBandRatio = 0.08
	footerStart     = "--- [FOOTER DATA START] ---"
	footerEnd       = "--- [FOOTER DATA END] ---"
	letterWidth     = 612.0
	letterHeight    = 792.0
)

// pageSize is a MediaBox extent in points.
type pageSize struct {
	Width, Height float64
}

// textLayer is the embedded text of a born-digital PDF.
type textLayer struct {
	Pages   int
	Body    []string   // per page
	Footers []string   // per page, may be empty
	Sizes   []pageSize // per page
}

// render interleaves each page with its tagged footer band so contact
// details printed in small type at the bottom are easy to find.
func (l textLayer) render() string {
	var b strings.Builder
	for i, body := range l.Body {
		if body = strings.TrimSpace(body); body != "" {
			b.WriteString(body)
			b.WriteString("\n")
		}
		if i < len(l.Footers) {
			b.WriteString(tagFooter(l.Footers[i]))
		}
	}
	return b.String()
}

func tagFooter(footer string) string {
	footer = strings.TrimSpace(footer)
	if footer == "" {
		return ""
	}
	return "\n" + footerStart + "\n" + footer + "\n" + footerEnd + "\n"
}

func readTextLayer(path string) (layer textLayer, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return layer, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	// the reader panics on some malformed content streams
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read pdf: %v", rec)
		}
	}()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return layer, fmt.Errorf("page %d: %w", i, err)
		}
		layer.Pages++
		layer.Body = append(layer.Body, text)
		layer.Footers = append(layer.Footers, footerBand(page))
		_, _, w, h := mediaBox(page)
		layer.Sizes = append(layer.Sizes, pageSize{Width: w, Height: h})
	}
	return layer, nil
}

// mediaBox returns the page's lower-left corner and extent, looking through
// inherited page tree attributes.
func mediaBox(page pdf.Page) (left, bottom, width, height float64) {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			left, bottom = box.Index(0).Float64(), box.Index(1).Float64()
			right, top := box.Index(2).Float64(), box.Index(3).Float64()
			if top > bottom && right > left {
				return left, bottom, right - left, top - bottom
			}
		}
	}
	return 0, 0, letterWidth, letterHeight
}

// footerBand collects text whose baseline lies in the bottom band of the page.
func footerBand(page pdf.Page) string {
	_, bottom, _, height := mediaBox(page)
	cutoff := bottom + height*footerBandRatio

	var runs []pdf.Text
	for _, t := range page.Content().Text {
		if t.Y <= cutoff {
			runs = append(runs, t)
		}
	}
	return joinRuns(runs)
}

// joinRuns orders glyph runs top-to-bottom, left-to-right and rebuilds lines.
func joinRuns(runs []pdf.Text) string {
	if len(runs) == 0 {
		return ""
	}
	sort.SliceStable(runs, func(i, j int) bool {
		if math.Abs(runs[i].Y-runs[j].Y) > 1 {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	var b strings.Builder
	prev := runs[0]
	b.WriteString(prev.S)
	for _, t := range runs[1:] {
		switch {
		case math.Abs(t.Y-prev.Y) > 1:
			b.WriteString("\n")
		case t.X-(prev.X+prev.W) > t.FontSize*0.25:
			b.WriteString(" ")
		}
		b.WriteString(t.S)
		prev = t
	}
	return strings.TrimSpace(b.String())
}
