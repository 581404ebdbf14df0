package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const revenueText = "Nhân viên\tDTLK\tDTQĐ\tHiệu quả QĐ\tSố lượng\tĐơn giá\n" +
	"BP Điện thoại\t3,000\t3,600\t0.2\n" +
	"Nguyễn Văn An - 101\t2,000\t2,400\t0.2\n" +
	"Trần Bình - 102\t1,000\t1,200\t0.2\n" +
	"Tổng\t3,000\t3,600\t0.2\n"

const competitionText = "Phòng ban\n" +
	"Thi đua Vivo\n" +
	"HOMECREDIT\n" +
	"DTLK\tSLLK\n" +
	"Nguyễn Văn An - 101\t100\t2\n" +
	"Trần Bình - 102\t50\t0\n" +
	"Tổng\t150\t2\n"

// run 在临时数据目录中执行命令
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.toml"),
		"--data-dir", filepath.Join(dir, "data"),
		"--log-level", "error",
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseRevenueCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nv.txt", revenueText)

	out, err := run(t, dir, "parse", "revenue", path)
	require.NoError(t, err)
	assert.Contains(t, out, "BP Điện thoại")
	assert.Contains(t, out, "2,000")
	assert.Contains(t, out, "total")

	out, err = run(t, dir, "parse", "revenue", "--json", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["))
}

func TestParseCompetitionCmd(t *testing.T) {
	dir := t.TempDir()
	revenue := writeFile(t, dir, "nv.txt", revenueText)
	competition := writeFile(t, dir, "td.txt", competitionText)

	out, err := run(t, dir, "parse", "competition", competition)
	require.NoError(t, err)
	assert.Contains(t, out, "没有可显示的竞赛数据")

	out, err = run(t, dir, "parse", "competition", "--revenue", revenue, competition)
	require.NoError(t, err)
	assert.Contains(t, out, "[DTLK]")
	assert.Contains(t, out, "[SLLK]")
	assert.Contains(t, out, "Tổng")
}

func TestRedistributeCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "redistribute", "--weight", "A=50", "--weight", "B=30", "--weight", "C=20", "--name", "A", "--value", "70")
	require.NoError(t, err)
	assert.Contains(t, out, "70.00")
	assert.Contains(t, out, "18.00")
	assert.Contains(t, out, "12.00")
	assert.Contains(t, out, "100.00")

	_, err = run(t, dir, "redistribute", "--weight", "A=100", "--name", "Z", "--value", "10")
	assert.Error(t, err)

	_, err = run(t, dir, "redistribute", "--weight", "A", "--name", "A", "--value", "10")
	assert.Error(t, err)
}

func TestParseWeights(t *testing.T) {
	w, err := parseWeights([]string{"BP a=b = 40", "X=60"})
	require.NoError(t, err)
	assert.Equal(t, 40.0, w["BP a=b"])
	assert.Equal(t, 60.0, w["X"])

	_, err = parseWeights(nil)
	assert.Error(t, err)
}

func TestImportExportCmd(t *testing.T) {
	dir := t.TempDir()

	wb := excelize.NewFile()
	for i, line := range strings.Split(strings.TrimSpace(revenueText), "\n") {
		cells := strings.Split(line, "\t")
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &row))
	}
	xlsx := filepath.Join(dir, "nv.xlsx")
	require.NoError(t, wb.SaveAs(xlsx))
	require.NoError(t, wb.Close())

	out, err := run(t, dir, "import", "--outlet", "ST A", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "imported")
	assert.Contains(t, out, "已导入 1 个工作表")

	target := filepath.Join(dir, "out.xlsx")
	out, err = run(t, dir, "export", "--outlet", "ST A", "--date", "2024-04-10", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "已导出")
	assert.Contains(t, out, "[  0%] revenue")
	assert.Contains(t, out, "[100%] done")

	f, err := excelize.OpenFile(target)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Revenue")
	require.NoError(t, err)
	assert.NotEmpty(t, rows)

	_, err = run(t, dir, "export", "--outlet", "ST A", "--date", "10/04/2024")
	assert.Error(t, err)
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "ST A_B", safeFileName(" ST A/B "))
}
