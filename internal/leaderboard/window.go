package leaderboard

import "time"

// Window 排行榜时间范围
type Window string

const (
	WindowAll   Window = "all"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

func AllWindows() []Window {
	return []Window{WindowAll, WindowWeek, WindowMonth}
}

func ParseWindow(s string) (Window, bool) {
	switch Window(s) {
	case WindowAll, WindowWeek, WindowMonth:
		return Window(s), true
	}
	return "", false
}

// StartTime 窗口的起始时间：
// all 取固定纪元，week 取最近的周一零点，month 取当月一号零点
func (w Window) StartTime(now time.Time) time.Time {
	switch w {
	case WindowWeek:
		// Weekday 里周日是 0，换算成周一起算的偏移
		offset := (int(now.Weekday()) + 6) % 7
		monday := now.AddDate(0, 0, -offset)
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	case WindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(2000, 1, 1, 0, 0, 0, 0, now.Location())
	}
}
