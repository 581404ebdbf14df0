package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ailtstruongson-maker/reportbi/internal/exporter"
)

const exportDownloadTTL = 10 * time.Minute

type exportStreamEvent struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type exportDownload struct {
	disposition string
	content     []byte
	expiresAt   time.Time
}

// exportDownloads 一次性下载缓存
type exportDownloads struct {
	mu    sync.Mutex
	items map[string]exportDownload
	now   func() time.Time
}

func newExportDownloads(now func() time.Time) *exportDownloads {
	return &exportDownloads{items: make(map[string]exportDownload), now: now}
}

func (s *exportDownloads) put(disposition string, content []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	token := uuid.NewString()
	s.items[token] = exportDownload{disposition: disposition, content: content, expiresAt: s.now().Add(exportDownloadTTL)}
	return token
}

// take 取出并删除
func (s *exportDownloads) take(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	item, ok := s.items[token]
	delete(s.items, token)
	return item, ok
}

func (s *exportDownloads) purgeLocked() {
	now := s.now()
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

// ExportStream 导出门店目标工作簿（SSE 进度，完成后给出下载地址）
// POST /api/outlets/:outlet/export/stream?date=2024-04-10
func (h *Handler) ExportStream(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(typ, msg string, data map[string]any) {
		b, err := json.Marshal(exportStreamEvent{Type: typ, Message: msg, Data: data, Timestamp: h.now()})
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	fail := func(msg string, err error) {
		send("error", msg+": "+err.Error(), map[string]any{})
	}

	day := date.Format("2006-01-02")
	send("start", "开始导出", map[string]any{"outlet": c.Param("outlet"), "date": day})

	data, err := exporter.Collect(c.Request.Context(), h.board, c.Param("outlet"), date)
	if err != nil {
		fail("读取数据失败", err)
		return
	}

	lastPercent := -1
	file, err := h.exporter.Export(data, func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send("progress", p.Stage, map[string]any{"percent": p.Percent})
	})
	if err != nil {
		fail("导出失败", err)
		return
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		fail("写入导出文件失败", err)
		return
	}

	token := h.downloads.put(buildExportContentDisposition(data.Outlet, day), buf.Bytes())
	prefix := c.FullPath()[:strings.Index(c.FullPath(), "/outlets/")]
	send("done", "导出完成", map[string]any{
		"percent":     100,
		"downloadUrl": prefix + "/export/download/" + token,
	})
}

// DownloadExport 下载流式导出的工作簿（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	c.Header("Content-Disposition", item.disposition)
	c.Data(http.StatusOK, xlsxContentType, item.content)
}
