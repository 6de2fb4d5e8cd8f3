package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"clockwise/backend/internal/model"
	"clockwise/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoShifts     = errors.New("该业务单元暂无已完结的换班记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出业务单元内已完结（APPROVED / COMPLETED / REJECTED / CANCELLED）的换班记录
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 每条记录附带胜出申请的类型与申请人，便于线下对账
type ExportService interface {
	// ExportSettledShifts 导出已完结换班记录为 Excel
	ExportSettledShifts(ctx context.Context, businessUnitID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 状态列展示文案
var shiftStatusLabels = map[model.ExchangeShiftStatus]string{
	model.ExchangeShiftApproved:  "已批准",
	model.ExchangeShiftCompleted: "已完成",
	model.ExchangeShiftRejected:  "已驳回",
	model.ExchangeShiftCancelled: "已撤回",
}

var requestTypeLabels = map[model.ShiftRequestType]string{
	model.RequestTakeShift: "接班",
	model.RequestSwapShift: "换班",
}

func (s *exportService) ExportSettledShifts(ctx context.Context, businessUnitID string) (*bytes.Buffer, string, error) {
	// 1. 查询已完结记录
	shifts, err := s.repo.ExchangeShift.ListSettled(ctx, businessUnitID)
	if err != nil {
		s.logger.Error("查询已完结换班记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(shifts) == 0 {
		return nil, "", ErrExportNoShifts
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "换班记录"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	widths := []float64{38, 16, 14, 18, 18, 10, 14, 14, 20}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	headers := []string{"班次编号", "发布者", "岗位", "开始时间", "结束时间", "状态", "申请类型", "申请人", "完结时间"}
	for i, h := range headers {
		cellRef, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cellRef, h)
		f.SetCellStyle(sheetName, cellRef, cellRef, headerStyle)
	}

	// 3. 数据行；胜出申请按需逐条补查
	row := 2
	for i := range shifts {
		shift := &shifts[i]

		requestType, requesterName := "-", "-"
		if shift.AcceptedRequestID != nil {
			if req, err := s.repo.ShiftRequest.GetByID(ctx, *shift.AcceptedRequestID); err == nil {
				requestType = requestTypeLabels[req.RequestType]
				requesterName = req.RequesterName
			}
		}

		status := shiftStatusLabels[shift.Status]
		if status == "" {
			status = string(shift.Status)
		}

		values := []interface{}{
			shift.ShiftID,
			shift.PosterName,
			shift.Position,
			shift.StartTime.Format("2006-01-02 15:04"),
			shift.EndTime.Format("2006-01-02 15:04"),
			status,
			requestType,
			requesterName,
			shift.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cellRef, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cellRef, v)
		}
		row++
	}

	// 4. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("换班记录_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}
