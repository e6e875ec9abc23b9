package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ravisuresh229/bidbook/internal/review"
)

const sheet = "Bids"

var headers = []string{
	"Trade",
	"Company",
	"Contact",
	"Email",
	"Phone",
	"Website",
	"Confidence",
	"Invited",
	"Source File",
}

// Service renders reviewed batches for download.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportXLSX returns an XLSX workbook (as bytes) with one row per proposal,
// ordered by trade group. Rows still missing data are shaded.
func (s *Service) ExportXLSX(ctx context.Context, sess review.Session) ([]byte, error) {
	start := time.Now()
	v := sess.Snapshot()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	missingStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FDE2E1"}},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, headStyle)

	row := 2
	for _, g := range v.Groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, i := range g.Indices {
			rv := v.Records[i]
			r := rv.Record
			invited := ""
			if rv.Invited {
				invited = "Yes"
			}
			values := []any{
				g.Label,
				r.CompanyName.String(),
				r.ContactName.String(),
				r.Email.String(),
				r.Phone.String(),
				r.Website.String(),
				rv.DisplayConfidence,
				invited,
				r.SourceFile.String(),
			}
			first, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheet, first, &values); err != nil {
				return nil, fmt.Errorf("xlsx row %d: %w", row, err)
			}
			if rv.Category == review.CategoryLow {
				end, _ := excelize.CoordinatesToCellName(len(headers), row)
				_ = f.SetCellStyle(sheet, first, end, missingStyle)
			}
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22) // trade
	_ = f.SetColWidth(sheet, "B", "C", 28) // company, contact
	_ = f.SetColWidth(sheet, "D", "D", 34) // email
	_ = f.SetColWidth(sheet, "E", "F", 20)
	_ = f.SetColWidth(sheet, "G", "H", 14)
	_ = f.SetColWidth(sheet, "I", "I", 40) // source file

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"groups", len(v.Groups),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
