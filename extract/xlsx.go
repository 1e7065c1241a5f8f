package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSX extracts text runs from workbooks. Each sheet becomes one page; the
// sheet name is emitted as a heading-scale row, and per-cell font styles are
// read so bold or enlarged header rows keep their weight.
type XLSX struct {
	MaxPages int
}

func (e *XLSX) Formats() []string { return []string{"xlsx"} }

func (e *XLSX) Extract(ctx context.Context, path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if e.MaxPages > 0 && len(sheets) > e.MaxPages {
		sheets = sheets[:e.MaxPages]
	}

	doc := &Document{Path: path, Name: filepath.Base(path), Pages: len(sheets)}

	var b runBuilder
	for si, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		page := si + 1
		b.add(page, SizeH2, true, true, sheet)

		for ri, row := range rows {
			cells := make([]string, 0, len(row))
			size, bold := SizeBody, false
			for ci, cell := range row {
				if strings.TrimSpace(cell) == "" {
					continue
				}
				cells = append(cells, strings.TrimSpace(cell))
				if cs, cb := e.cellFont(f, sheet, ci+1, ri+1); cs > 0 {
					if cs > size {
						size = cs
					}
					bold = bold || cb
				}
			}
			if len(cells) == 0 {
				continue
			}
			b.add(page, size, bold, true, strings.Join(cells, " "))
		}
	}
	doc.Runs = b.runs

	return doc, nil
}

// cellFont looks up a cell's font size and weight; zero size means the style
// could not be resolved and the caller should keep its default.
func (e *XLSX) cellFont(f *excelize.File, sheet string, col, row int) (float64, bool) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return 0, false
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return 0, false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil || style.Font == nil {
		return 0, false
	}
	return style.Font.Size, style.Font.Bold
}
