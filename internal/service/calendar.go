package service

import (
	"context"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"clockwise/backend/internal/model"
)

// ── 班次日历导出 ──────────────────────────────────────────────
//
// 职责：将挂牌班次渲染为标准 iCalendar (RFC 5545) 内容，
// 供员工订阅/导入到手机日历。单事件导出，DTSTART/DTEND 取班次时间。
// ─────────────────────────────────────────────────────────────

const calendarProductID = "-//clockwise//shift-marketplace//ZH"

// RenderShiftCalendar 将班次渲染为 ICS 文本
// 返回值：内容, 建议文件名, error
func (s *marketplaceService) RenderShiftCalendar(ctx context.Context, exchangeShiftID string) (string, string, error) {
	shift, err := s.getShift(ctx, exchangeShiftID)
	if err != nil {
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	event := cal.AddEvent(fmt.Sprintf("%s@clockwise", shift.ExchangeShiftID))
	event.SetCreatedTime(shift.CreatedAt)
	event.SetDtStampTime(shift.UpdatedAt)
	event.SetStartAt(shift.StartTime)
	event.SetEndAt(shift.EndTime)
	event.SetSummary(fmt.Sprintf("%s 班次（%s）", shift.Position, shift.PosterName))
	event.SetDescription(shiftCalendarDescription(shift))

	s.logger.Debug("渲染班次日历", zap.String("exchange_shift_id", shift.ExchangeShiftID))

	filename := fmt.Sprintf("shift_%s.ics", shift.ShiftID)
	return cal.Serialize(), filename, nil
}

func shiftCalendarDescription(shift *model.ExchangeShift) string {
	return fmt.Sprintf("换班市场班次\n发布者：%s\n岗位：%s\n当前状态：%s",
		shift.PosterName, shift.Position, shift.Status)
}
