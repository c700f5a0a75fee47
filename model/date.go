package model

import (
	"strings"
	"time"
)

// ParseDueDate 解析 YYYY-MM-DD 格式的截止日期
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &ValidationError{Field: "due_date", Message: "due date is required"}
	}
	d, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "due_date", Message: "due date must be YYYY-MM-DD"}
	}
	return d, nil
}

// DateOf 取 t 在 loc 中的日历日期，结果为该日期的 UTC 零点
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped 按日历月相加，日期超出目标月份天数时取月末
// (1月31日 + 1个月 = 2月28/29日)
func AddMonthsClamped(d time.Time, months int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, d.Location())
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

// FormatDisplayDate 按布局格式化日期，使用日期本身的日历字段
func FormatDisplayDate(d time.Time, layout string) string {
	if layout == "" {
		layout = DefaultDisplayLayout
	}
	return d.Format(layout)
}
