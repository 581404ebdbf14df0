package v1

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ailtstruongson-maker/reportbi/internal/service/backup"
)

// maxBackupSize 恢复请求体上限
const maxBackupSize = 64 << 20

func (h *Handler) requireBackup(c *gin.Context) bool {
	if h.backup == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "备份功能未启用"})
		return false
	}
	return true
}

// DownloadBackup 导出全部数据
// GET /api/backup
func (h *Handler) DownloadBackup(c *gin.Context) {
	if !h.requireBackup(c) {
		return
	}
	doc, err := h.backup.Dump(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	name := fmt.Sprintf("reportbi-backup-%s.json", doc.CreatedAt.Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.JSON(http.StatusOK, doc)
}

// RestoreBackup 用上传的备份替换全部数据
// POST /api/backup
func (h *Handler) RestoreBackup(c *gin.Context) {
	if !h.requireBackup(c) {
		return
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBackupSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取请求体失败"})
		return
	}
	doc, err := backup.Decode(data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	n, err := h.backup.Restore(c.Request.Context(), doc)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": n})
}

// ListBackupFiles 备份目录中的文件
// GET /api/backup/files
func (h *Handler) ListBackupFiles(c *gin.Context) {
	if !h.requireBackup(c) {
		return
	}
	files, err := h.backup.ListFiles()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// SaveBackupFile 立即写入一份备份文件
// POST /api/backup/files
func (h *Handler) SaveBackupFile(c *gin.Context) {
	if !h.requireBackup(c) {
		return
	}
	path, err := h.backup.SaveFile(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

// RestoreBackupFile 从备份文件恢复
// POST /api/backup/files/:name/restore
func (h *Handler) RestoreBackupFile(c *gin.Context) {
	if !h.requireBackup(c) {
		return
	}
	n, err := h.backup.RestoreFile(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": n})
}
