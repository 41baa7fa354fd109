// pkg/reader/excel.go
package reader

import (
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// readXLSX parses the first worksheet of an Office Open XML spreadsheet.
func (r *FileReader) readXLSX(path string) (*model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "cannot open xlsx workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Path: path, Reason: "workbook contains no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "cannot read worksheet", Err: err}
	}

	if len(rows) == 0 {
		return nil, &ParseError{Path: path, Reason: "worksheet contains no header row"}
	}

	columns := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		columns[i] = strings.TrimSpace(col)
	}

	// excelize trims trailing empty cells; pad so every row spans the header.
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		padded := make([]string, len(columns))
		copy(padded, row)
		data = append(data, padded)
	}

	return &model.Table{Columns: columns, Rows: data}, nil
}

// readXLS parses the first worksheet of a legacy BIFF spreadsheet.
func (r *FileReader) readXLS(path string) (*model.Table, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "cannot open xls workbook", Err: err}
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, &ParseError{Path: path, Reason: "workbook contains no sheets"}
	}

	if sheet.MaxRow == 0 && sheet.Row(0) == nil {
		return nil, &ParseError{Path: path, Reason: "worksheet contains no header row"}
	}

	header := sheet.Row(0)
	if header == nil {
		return nil, &ParseError{Path: path, Reason: "worksheet contains no header row"}
	}

	width := header.LastCol()
	if width == 0 {
		return nil, &ParseError{Path: path, Reason: "worksheet contains no header row"}
	}

	columns := make([]string, width)
	for i := 0; i < width; i++ {
		columns[i] = strings.TrimSpace(header.Col(i))
	}

	data := make([][]string, 0, int(sheet.MaxRow))
	for i := 1; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cells := make([]string, width)
		if row != nil {
			for j := 0; j < width; j++ {
				cells[j] = row.Col(j)
			}
		}
		data = append(data, cells)
	}

	return &model.Table{Columns: columns, Rows: data}, nil
}
