package v1

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ailtstruongson-maker/reportbi/internal/exporter"
	"github.com/ailtstruongson-maker/reportbi/internal/importer"
	"github.com/ailtstruongson-maker/reportbi/internal/service/backup"
	"github.com/ailtstruongson-maker/reportbi/internal/service/board"
	"github.com/ailtstruongson-maker/reportbi/internal/store"
)

// ImportLogReader 导入记录查询
type ImportLogReader interface {
	ListImportLogs(ctx context.Context, outlet string, limit uint64) ([]store.ImportLog, error)
}

// Handler V1 API 处理器
type Handler struct {
	board     *board.Service
	backup    *backup.Manager
	importer  *importer.Coordinator
	exporter  *exporter.Exporter
	downloads *exportDownloads
	logs      ImportLogReader
	log       *zap.Logger
	now       func() time.Time
}

// Deps 处理器依赖；Backup 与 Logs 可为空
type Deps struct {
	Board  *board.Service
	Backup *backup.Manager
	Logs   interface {
		ImportLogReader
		importer.ImportLogger
	}
	Log *zap.Logger
	Now func() time.Time
}

// NewHandler 创建 V1 API 处理器
func NewHandler(d Deps) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &Handler{
		board:     d.Board,
		backup:    d.Backup,
		exporter:  exporter.NewExporter(),
		downloads: newExportDownloads(d.Now),
		log:       d.Log,
		now:       d.Now,
	}
	if d.Logs != nil {
		h.logs = d.Logs
		h.importer = importer.NewCoordinator(d.Board, d.Logs, d.Log)
	} else {
		h.importer = importer.NewCoordinator(d.Board, nil, d.Log)
	}
	return h
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 无状态解析
	router.POST("/parse/revenue", h.ParseRevenue)
	router.POST("/parse/competition", h.ParseCompetition)
	router.POST("/recognize", h.Recognize)
	router.POST("/weights/redistribute", h.RedistributeWeights)

	// 区域级数据
	router.GET("/outlets", h.ListOutlets)
	router.GET("/programs", h.ListPrograms)

	// 门店报表
	o := router.Group("/outlets/:outlet")
	o.GET("/reports/:kind", h.GetReport)
	o.PUT("/reports/:kind", h.PutReport)
	o.GET("/revenue", h.GetRevenue)
	o.GET("/competition", h.GetCompetition)
	o.GET("/departments", h.GetDepartments)
	o.GET("/thresholds", h.GetThresholds)
	o.GET("/industry", h.GetIndustry)

	// 目标
	o.GET("/weights", h.GetWeights)
	o.PUT("/weights", h.SetWeight)
	o.DELETE("/weights", h.ResetWeights)
	o.GET("/targets/revenue", h.GetRevenueSettings)
	o.PATCH("/targets/revenue", h.UpdateRevenueSettings)
	o.GET("/plan", h.GetRevenuePlan)
	o.GET("/programs", h.GetProgramPlan)
	o.PUT("/programs", h.SetProgramMultiplier)
	o.DELETE("/programs", h.ResetProgramMultipliers)
	o.GET("/programs/employees", h.GetEmployeeProgramTargets)

	// 快照与趋势
	o.GET("/snapshots", h.ListSnapshots)
	o.POST("/snapshots", h.SaveSnapshot)
	o.DELETE("/snapshots/:id", h.DeleteSnapshot)
	o.GET("/snapshots/:id/changes", h.GetChanges)
	o.GET("/trend", h.GetTrend)

	// 竞赛组合与积分
	o.GET("/versions", h.ListVersions)
	o.POST("/versions", h.SaveVersion)
	o.DELETE("/versions/:name", h.DeleteVersion)
	o.GET("/bonus", h.GetBonus)
	o.PUT("/bonus", h.SaveBonus)

	// 导入导出
	o.GET("/export", h.Export)
	o.POST("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
	o.POST("/import", h.Import)
	router.GET("/import-logs", h.ListImportLogs)

	// 备份
	router.GET("/backup", h.DownloadBackup)
	router.POST("/backup", h.RestoreBackup)
	router.GET("/backup/files", h.ListBackupFiles)
	router.POST("/backup/files", h.SaveBackupFile)
	router.POST("/backup/files/:name/restore", h.RestoreBackupFile)
}

// writeError 按错误类型选择状态码
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, board.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrInvalidInput), errors.Is(err, backup.ErrInvalidBackup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// bindJSON 解析请求体，失败时直接返回 400
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体: " + err.Error()})
		return false
	}
	return true
}

// queryDate 查询参数 date（YYYY-MM-DD），缺省为今天
func (h *Handler) queryDate(c *gin.Context) (time.Time, bool) {
	v := strings.TrimSpace(c.Query("date"))
	if v == "" {
		return h.now(), true
	}
	d, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date 格式应为 YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}
