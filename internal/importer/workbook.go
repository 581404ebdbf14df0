package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet 工作表转换后的粘贴文本
type Sheet struct {
	Name string
	Text string
	Rows int
}

// cellCleaner 单元格内的换行与制表符会破坏行列结构
var cellCleaner = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// OpenWorkbook 从 reader 打开工作簿
func OpenWorkbook(r io.Reader) (*excelize.File, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	return file, nil
}

// SheetText 将工作表还原为从表格复制时的文本：单元格以制表符分隔，行以换行分隔
// 全空行被丢弃
func SheetText(file *excelize.File, sheet string) (Sheet, error) {
	rows, err := file.GetRows(sheet)
	if err != nil {
		return Sheet{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var b strings.Builder
	count := 0
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if count > 0 {
			b.WriteByte('\n')
		}
		for i, cell := range row {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(cellCleaner.Replace(cell))
		}
		count++
	}
	return Sheet{Name: sheet, Text: b.String(), Rows: count}, nil
}

// ReadSheets 读取所有（或指定名称的）工作表
func ReadSheets(file *excelize.File, only string) ([]Sheet, error) {
	names := file.GetSheetList()
	if only != "" {
		if idx, _ := file.GetSheetIndex(only); idx < 0 {
			return nil, fmt.Errorf("sheet %q not found", only)
		}
		names = []string{only}
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		s, err := SheetText(file, name)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
