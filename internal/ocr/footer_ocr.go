package ocr

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	minFooterChars = 10
	shortPageChars = 500
	pointsPerInch  = 72.0
)

// Tokens a footer must contain to be kept; anything else is scan noise.
var footerContactTokens = []string{
	"www", ".com", ".net", ".org", "@", "Fax", "Phone", "Tel",
	"703", "301", "907", "(", ")", "-",
}

// needsFooterOCR picks pages whose text layer has no usable footer and that
// are likely to carry contact details: the first, the last, or a sparse page.
func needsFooterOCR(l textLayer, i int) bool {
	if i < len(l.Footers) && utf8.RuneCountInString(strings.TrimSpace(l.Footers[i])) >= minFooterChars {
		return false
	}
	last := len(l.Body) - 1
	return i == 0 || i == last || utf8.RuneCountInString(l.Body[i]) < shortPageChars
}

func looksLikeContact(s string) bool {
	for _, tok := range footerContactTokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// ocrMissingFooters renders the bottom band of qualifying pages and OCRs it.
// Failures are returned as warnings; the footer is then left empty.
func (e *Extractor) ocrMissingFooters(ctx context.Context, path string, l *textLayer) []string {
	var pages []int
	for i := range l.Body {
		if needsFooterOCR(*l, i) {
			pages = append(pages, i)
		}
	}
	if len(pages) == 0 {
		return nil
	}

	tmpDir, err := os.MkdirTemp("", "bidbook-footer-*")
	if err != nil {
		return []string{err.Error()}
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("ocr.tmpdir.cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	for len(l.Footers) < len(l.Body) {
		l.Footers = append(l.Footers, "")
	}
	var warns []string
	for _, i := range pages {
		txt, err := e.footerOCR(ctx, path, tmpDir, i, l.size(i))
		if err != nil {
			e.logger.Debug("ocr.footer.failed", "path", path, "page", i+1, "error", err)
			warns = append(warns, fmt.Sprintf("footer ocr page %d: %v", i+1, err))
			continue
		}
		txt = strings.TrimSpace(txt)
		if txt == "" || !looksLikeContact(txt) {
			e.logger.Debug("ocr.footer.noise", "path", path, "page", i+1, "text_len", len(txt))
			continue
		}
		e.logger.Debug("ocr.footer.ok", "path", path, "page", i+1, "text_len", len(txt))
		l.Footers[i] = txt
	}
	return warns
}

func (l textLayer) size(i int) pageSize {
	if i < len(l.Sizes) && l.Sizes[i].Width > 0 && l.Sizes[i].Height > 0 {
		return l.Sizes[i]
	}
	return pageSize{Width: letterWidth, Height: letterHeight}
}

// footerOCR has pdftoppm rasterize only the bottom band of page i (0-based),
// then runs tesseract on that image.
func (e *Extractor) footerOCR(ctx context.Context, path, dir string, i int, size pageSize) (string, error) {
	dpi := float64(e.cfg.DPI)
	w := int(math.Ceil(size.Width * dpi / pointsPerInch))
	h := int(math.Ceil(size.Height * dpi / pointsPerInch))
	band := int(math.Round(float64(h) * footerBandRatio))
	top := h - band

	page := strconv.Itoa(i + 1)
	prefix := filepath.Join(dir, "footer-"+page)
	// pdftoppm -f N -l N -r 300 -x 0 -y <top> -W <w> -H <band> -png -singlefile <in.pdf> <prefix>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", page, "-l", page,
		"-r", strconv.Itoa(e.cfg.DPI),
		"-x", "0", "-y", strconv.Itoa(top),
		"-W", strconv.Itoa(w), "-H", strconv.Itoa(band),
		"-png", "-singlefile", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	txt, _, err := e.tesseractOCR(ctx, prefix+".png")
	return txt, err
}
