package v1

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/ailtstruongson-maker/reportbi/internal/service/backup"
	"github.com/ailtstruongson-maker/reportbi/internal/service/board"
	memstore "github.com/ailtstruongson-maker/reportbi/internal/service/store"
)

const (
	revenueText = "Nhân viên\tDTLK\tDTQĐ\tHiệu quả QĐ\tSố lượng\tĐơn giá\n" +
		"BP Điện thoại\t3,000\t3,600\t0.2\n" +
		"Nguyễn Văn An - 101\t2,000\t2,400\t0.2\n" +
		"Trần Bình - 102\t1,000\t1,200\t0.2\n" +
		"BP Gia dụng\t1,000\t1,100\t0.1\n" +
		"Lê Thị Chi - 201\t1,000\t1,100\t0.1\n" +
		"Tổng\t4,000\t4,700\t0.175"

	competitionText = "Phòng ban\nThi đua Vivo\nHOMECREDIT\nDTLK\tSLLK\n" +
		"Nguyễn Văn An - 101\t100\t2\n" +
		"Trần Bình - 102\t50\t0\n" +
		"Tổng\t150\t2"

	luyKeText            = "ST Quận 1\t1\t2\t3\t4\t6,000\t75%"
	competitionLuyKeText = "Thi đua Vivo\tDTLK\tTarget\nST Quận 1\t0\t3,000"

	outletPath = "/api/outlets/ST%20Qu%E1%BA%ADn%201"
)

var fixedNow = time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	kv := memstore.NewMemoryStore()
	opts := board.DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	b := board.New(kv, log, opts)
	bk := backup.NewManager(kv, filepath.Join(t.TempDir(), "backups"), log)
	t.Cleanup(func() { bk.Close() })

	r := gin.New()
	NewHandler(Deps{Board: b, Backup: bk, Log: log, Now: func() time.Time { return fixedNow }}).RegisterRoutes(r.Group("/api"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func seed(t *testing.T, r http.Handler) {
	t.Helper()
	for kind, text := range map[string]string{
		"revenue":           revenueText,
		"competition":       competitionText,
		"luyke":             luyKeText,
		"competition_luyke": competitionLuyKeText,
	} {
		w := doJSON(t, r, http.MethodPut, outletPath+"/reports/"+kind, map[string]string{"text": text})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
}

func TestParseRevenue(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/parse/revenue", map[string]string{"text": revenueText})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Records     []map[string]any `json:"records"`
		Departments []map[string]any `json:"departments"`
	}
	decode(t, w, &resp)
	assert.Len(t, resp.Records, 6)
	assert.Len(t, resp.Departments, 2)
}

func TestParseCompetition_UsesRevenueMembers(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/parse/competition", map[string]string{
		"text":        competitionText,
		"revenueText": revenueText,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Headers []map[string]any `json:"headers"`
		Data    map[string]struct {
			Records []map[string]any `json:"records"`
		} `json:"data"`
	}
	decode(t, w, &resp)
	assert.Len(t, resp.Headers, 2)
	assert.Len(t, resp.Data["DTLK"].Records, 3)
}

func TestRedistributeWeights(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/weights/redistribute", map[string]any{
		"weights": map[string]float64{"A": 50, "B": 30, "C": 20},
		"name":    "A",
		"value":   70,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Weights map[string]float64 `json:"weights"`
		Sum     float64            `json:"sum"`
	}
	decode(t, w, &resp)
	assert.InDelta(t, 100, resp.Sum, 1e-9)
	assert.InDelta(t, 18, resp.Weights["B"], 1e-9)
	assert.InDelta(t, 12, resp.Weights["C"], 1e-9)

	w = doJSON(t, r, http.MethodPost, "/api/weights/redistribute", map[string]any{
		"weights": map[string]float64{"A": 100}, "name": "Z", "value": 10,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/weights/redistribute", map[string]any{
		"weights": map[string]float64{"A": 100}, "name": "A",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecognize(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/recognize", map[string]string{"text": revenueText})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"revenue"`)
}

func TestPutReport_UnknownKind(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPut, outletPath+"/reports/nope", map[string]string{"text": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOutletFlow(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/outlets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ST Quận 1")

	w = doJSON(t, r, http.MethodPut, outletPath+"/weights", map[string]any{"department": "BP Điện thoại", "value": 60})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, outletPath+"/weights", map[string]any{"department": "BP Không có", "value": 60})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, outletPath+"/plan?date=2024-04-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plan struct {
		Effective   *float64 `json:"effective"`
		Departments []struct {
			Name    string   `json:"name"`
			Monthly *float64 `json:"monthly"`
		} `json:"departments"`
	}
	decode(t, w, &plan)
	require.NotNil(t, plan.Effective)
	assert.InDelta(t, 8000, *plan.Effective, 1e-9)
	require.Len(t, plan.Departments, 2)

	w = doJSON(t, r, http.MethodGet, outletPath+"/plan?date=10-04-2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, outletPath+"/programs", map[string]any{"program": "Thi đua Vivo", "multiplierPercent": 150})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, outletPath+"/programs/employees", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nguyễn Văn An - 101")
}

func TestSnapshotsAndChanges(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := doJSON(t, r, http.MethodPost, outletPath+"/snapshots", map[string]string{"name": "Sáng"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var meta struct {
		ID string `json:"id"`
	}
	decode(t, w, &meta)
	require.NotEmpty(t, meta.ID)

	updated := strings.Replace(competitionText, "Trần Bình - 102\t50\t0", "Trần Bình - 102\t80\t0", 1)
	w = doJSON(t, r, http.MethodPut, outletPath+"/reports/competition", map[string]string{"text": updated})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, outletPath+"/snapshots/"+meta.ID+"/changes", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Changes []map[string]any `json:"changes"`
		Up      int              `json:"up"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.Up)

	w = doJSON(t, r, http.MethodGet, outletPath+"/snapshots/missing/changes", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, outletPath+"/trend", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := doJSON(t, r, http.MethodGet, outletPath+"/export?date=2024-04-10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="reportbi-2024-04-10.xlsx"`)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Targets")
}

func TestExportStream(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := doJSON(t, r, http.MethodPost, outletPath+"/export/stream?date=2024-04-10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	var events []exportStreamEvent
	for _, line := range strings.Split(w.Body.String(), "\n") {
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var evt exportStreamEvent
		require.NoError(t, json.Unmarshal([]byte(payload), &evt))
		events = append(events, evt)
	}
	require.GreaterOrEqual(t, len(events), 3)
	assert.Equal(t, "start", events[0].Type)
	assert.Equal(t, "progress", events[1].Type)

	done := events[len(events)-1]
	require.Equal(t, "done", done.Type, done.Message)
	url, _ := done.Data["downloadUrl"].(string)
	require.True(t, strings.HasPrefix(url, "/api/export/download/"), url)

	w = doJSON(t, r, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="reportbi-2024-04-10.xlsx"`)
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Targets")

	w = doJSON(t, r, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImport(t *testing.T) {
	r := newTestRouter(t)

	wb := excelize.NewFile()
	for i, line := range strings.Split(revenueText, "\n") {
		cells := strings.Split(line, "\t")
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &row))
	}
	xlsx, err := wb.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "nv.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, outletPath+"/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"imported":1`)

	w = doJSON(t, r, http.MethodGet, outletPath+"/departments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "BP Gia dụng")
}

func TestBackupRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dump := w.Body.Bytes()

	w = doJSON(t, r, http.MethodPut, outletPath+"/reports/revenue", map[string]string{"text": ""})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/backup", bytes.NewReader(dump))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"restored":4`)

	w = doJSON(t, r, http.MethodGet, outletPath+"/reports/revenue", nil)
	assert.Contains(t, w.Body.String(), "Nguyễn Văn An - 101")

	req = httptest.NewRequest(http.MethodPost, "/api/backup", strings.NewReader(`{"version":1}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuildExportContentDisposition(t *testing.T) {
	got := buildExportContentDisposition("ST A", "2024-04-10")
	want := `attachment; filename="reportbi-2024-04-10.xlsx"; filename*=UTF-8''ST%20A_2024-04-10.xlsx`
	if got != want {
		t.Fatalf("content-disposition mismatch:\n got: %s\nwant: %s", got, want)
	}
}
