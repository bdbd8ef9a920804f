package utils

import (
	"fmt"
	"time"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

func ValidateShiftDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("日期格式错误，应为 %s", DateLayout)
	}
	return nil
}

// ValidateShiftTimeWindow 检查起止时间的格式，以及结束时间是否晚于开始时间
func ValidateShiftTimeWindow(startTime, endTime string) error {
	start, err := time.Parse(TimeLayout, startTime)
	if err != nil {
		return fmt.Errorf("开始时间格式错误，应为 %s", TimeLayout)
	}
	end, err := time.Parse(TimeLayout, endTime)
	if err != nil {
		return fmt.Errorf("结束时间格式错误，应为 %s", TimeLayout)
	}
	if !end.After(start) {
		return fmt.Errorf("结束时间必须晚于开始时间")
	}
	return nil
}

func ValidateSubmissionEntries(entries []domain.ShiftSubmissionEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("提交内容不能为空")
	}

	for i, entry := range entries {
		if err := ValidateShiftDate(entry.Date); err != nil {
			return fmt.Errorf("第 %d 条：%w", i+1, err)
		}
		if err := ValidateShiftTimeWindow(entry.StartTime, entry.EndTime); err != nil {
			return fmt.Errorf("第 %d 条：%w", i+1, err)
		}
		if entry.BranchName == "" {
			return fmt.Errorf("第 %d 条：门店名称不能为空", i+1)
		}
	}

	return nil
}
