package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ailtstruongson-maker/reportbi/internal/exporter"
	"github.com/ailtstruongson-maker/reportbi/internal/importer"
	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// buildExportContentDisposition ASCII 文件名兜底，filename* 保留门店原名
func buildExportContentDisposition(outlet, date string) string {
	ascii := fmt.Sprintf("reportbi-%s.xlsx", date)
	utf8Name := url.PathEscape(fmt.Sprintf("%s_%s.xlsx", outlet, date))
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", ascii, utf8Name)
}

// Export 导出门店目标工作簿
// GET /api/outlets/:outlet/export?date=2024-04-10
func (h *Handler) Export(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}
	data, err := exporter.Collect(c.Request.Context(), h.board, c.Param("outlet"), date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	file, err := h.exporter.Export(data, nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", buildExportContentDisposition(data.Outlet, date.Format("2006-01-02")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Import 上传 xlsx，识别各工作表并保存为报表
// POST /api/outlets/:outlet/import  (multipart: file, sheet, kind, stream)
func (h *Handler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	kind := model.ReportKind(c.PostForm("kind"))
	if kind != "" && !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report kind: " + string(kind)})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer f.Close()

	opts := importer.ImportOptions{
		Filename: header.Filename,
		Reader:   f,
		Outlet:   c.Param("outlet"),
		Sheet:    c.PostForm("sheet"),
		Kind:     kind,
	}

	if c.PostForm("stream") != "true" {
		report, err := h.importer.Run(c.Request.Context(), opts)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}

	// SSE 流式返回进度
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	for event := range h.importer.Import(c.Request.Context(), opts) {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// ListImportLogs 最近的导入记录
// GET /api/import-logs?outlet=&limit=20
func (h *Handler) ListImportLogs(c *gin.Context) {
	if h.logs == nil {
		c.JSON(http.StatusOK, gin.H{"logs": []any{}})
		return
	}
	limit, err := strconv.ParseUint(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须为非负整数"})
		return
	}
	logs, err := h.logs.ListImportLogs(c.Request.Context(), c.Query("outlet"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
