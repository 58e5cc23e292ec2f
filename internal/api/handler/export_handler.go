package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"staffhub/internal/service"
	"staffhub/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportShifts 导出班次花名册
// GET /api/v1/export/shifts?from=2024-01-01&to=2024-01-31
func (h *ExportHandler) ExportShifts(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, response.CodeBadRequest, "from 与 to 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportShifts(c.Request.Context(), from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setAttachment(c, filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// MyCalendar 以 ICS 日历格式导出我的班次
// GET /api/v1/shifts/my/calendar.ics?from=...&to=...
func (h *ExportHandler) MyCalendar(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, response.CodeBadRequest, "from 与 to 不能为空")
		return
	}

	employeeID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	cal, err := h.exportSvc.EmployeeCalendar(c.Request.Context(), employeeID, from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	setAttachment(c, "shifts.ics")
	c.Data(http.StatusOK, icsContentType, []byte(cal))
}

func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoShifts):
		response.NotFound(c, 16001, "所选日期范围内没有班次")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13006, "日期格式错误")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 13007, "日期范围无效")
	default:
		response.InternalError(c)
	}
}
