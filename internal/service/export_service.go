package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"staffhub/internal/model"
	"staffhub/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoShifts     = errors.New("所选日期范围内没有班次")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const icsProductID = "-//staffhub//shifts//EN"

// ExportService 排班导出业务接口
//
//   - ExportShifts 导出排班表为 Excel，由 Handler 设置响应头后写出
//   - EmployeeCalendar 生成员工个人班次的 iCalendar 订阅内容
type ExportService interface {
	ExportShifts(ctx context.Context, from, to string) (*bytes.Buffer, string, error)
	EmployeeCalendar(ctx context.Context, employeeID, from, to string) (string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportShifts 导出班次花名册为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：单 Sheet，每行一个班次
//   | 日期 | 星期 | 开始 | 结束 | 岗位 | 员工 | 来源 | 状态 | 冲突 |
// 冲突班次整行标红

func (s *exportService) ExportShifts(ctx context.Context, from, to string) (*bytes.Buffer, string, error) {
	fromDate, toDate, err := parseDateRange(from, to)
	if err != nil {
		return nil, "", err
	}

	shifts, err := s.repo.Shift.List(ctx, &repository.ShiftListFilters{From: fromDate, To: toDate})
	if err != nil {
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, "", err
	}
	if len(shifts) == 0 {
		return nil, "", ErrExportNoShifts
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Shifts"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Weekday", "Start", "End", "Position", "Employee", "Source", "Status", "Conflict"}
	widths := []float64{12, 11, 8, 8, 18, 24, 12, 11, 9}
	for i, h := range headers {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, widths[i])
		f.SetCellValue(sheetName, cell(col, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	conflictStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for i := range shifts {
		sh := &shifts[i]
		employee := "Unassigned"
		if sh.Employee != nil {
			employee = sh.Employee.DisplayName()
		}
		conflict := ""
		if sh.IsConflict {
			conflict = "YES"
		}

		values := []interface{}{
			sh.ShiftDate.Format(model.DateLayout),
			sh.ShiftDate.Weekday().String(),
			clockString(sh.StartTime),
			clockString(sh.EndTime),
			sh.Position,
			employee,
			sh.CreatedFrom,
			sh.Status,
			conflict,
		}
		for c, v := range values {
			f.SetCellValue(sheetName, cell(colName(c), row), v)
		}
		if sh.IsConflict {
			f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(headers)-1), row), conflictStyle)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("shifts_%s_%s.xlsx", fromDate.Format(model.DateLayout), toDate.Format(model.DateLayout))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// EmployeeCalendar 生成员工班次 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 仅包含 active / completed 班次，已取消的班次不输出

func (s *exportService) EmployeeCalendar(ctx context.Context, employeeID, from, to string) (string, error) {
	fromDate, toDate, err := parseDateRange(from, to)
	if err != nil {
		return "", err
	}

	shifts, err := s.repo.Shift.List(ctx, &repository.ShiftListFilters{
		From:       fromDate,
		To:         toDate,
		EmployeeID: employeeID,
	})
	if err != nil {
		s.logger.Error("查询员工班次失败", zap.String("employee_id", employeeID), zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("My Shifts")

	stamp := nowFunc().UTC()
	for i := range shifts {
		sh := &shifts[i]
		if sh.Status == model.ShiftStatusCancelled {
			continue
		}
		start, end, err := shiftBounds(sh)
		if err != nil {
			s.logger.Warn("班次时间无法解析，跳过", zap.String("shift_id", sh.ShiftID), zap.Error(err))
			continue
		}

		event := cal.AddEvent(sh.ShiftID + "@staffhub")
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		summary := "Shift"
		if sh.Position != "" {
			summary = "Shift: " + sh.Position
		}
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("Status: %s", sh.Status))
	}

	return cal.Serialize(), nil
}

// shiftBounds 由班次日期与起止时间得到绝对时间
func shiftBounds(sh *model.Shift) (time.Time, time.Time, error) {
	startOffset, err := parseClock(sh.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endOffset, err := parseClock(sh.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	day := time.Date(sh.ShiftDate.Year(), sh.ShiftDate.Month(), sh.ShiftDate.Day(), 0, 0, 0, 0, time.UTC)
	return day.Add(startOffset), day.Add(endOffset), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
