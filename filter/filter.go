// Package filter 计算任务列表的可见子集，不修改输入
package filter

import (
	"strings"
	"time"

	"tasklist/model"
)

// Selector 任务列表的视图名称
type Selector string

const (
	All       Selector = "all"
	Today     Selector = "today"
	Week      Selector = "week"
	Month     Selector = "month"
	Completed Selector = "completed"
	Pending   Selector = "pending"
)

// WeekSpan "week" 视图包含的天数(含两端)
const WeekSpan = 7

var selectors = []Selector{All, Today, Week, Month, Completed, Pending}

// Selectors 按菜单顺序返回所有视图
func Selectors() []Selector {
	out := make([]Selector, len(selectors))
	copy(out, selectors)
	return out
}

// ParseSelector 解析视图名称，未知或空输入返回 All
func ParseSelector(raw string) Selector {
	sel := Selector(strings.ToLower(strings.TrimSpace(raw)))
	if sel.Known() {
		return sel
	}
	return All
}

// Known 是否为已知视图
func (s Selector) Known() bool {
	for _, k := range selectors {
		if s == k {
			return true
		}
	}
	return false
}

func (s Selector) String() string { return string(s) }

// Entry 可见任务及其在完整列表中的位置
type Entry struct {
	Index int        `json:"index"`
	Task  model.Task `json:"task"`
}

// Window 相对日期视图使用的闭区间 [From, To]
type Window struct {
	From time.Time
	To   time.Time
}

// Contains 日期是否落在区间内
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

// WindowFor 返回相对日期视图的区间，不按日期过滤的视图 ok 为 false
func WindowFor(sel Selector, today time.Time) (w Window, ok bool) {
	switch sel {
	case Today:
		return Window{From: today, To: today}, true
	case Week:
		return Window{From: today, To: today.AddDate(0, 0, WeekSpan)}, true
	case Month:
		return Window{From: today, To: model.AddMonthsClamped(today, 1)}, true
	}
	return Window{}, false
}

// Predicate 返回视图的判断函数，now 先按自身时区取日历日期
func Predicate(sel Selector, now time.Time) func(model.Task) bool {
	today := model.DateOf(now, now.Location())

	if w, ok := WindowFor(sel, today); ok {
		return func(t model.Task) bool {
			return w.Contains(model.DateOf(t.DueDate, time.UTC))
		}
	}

	switch sel {
	case Completed:
		return func(t model.Task) bool { return t.Completed }
	case Pending:
		return func(t model.Task) bool { return !t.Completed }
	default:
		return func(model.Task) bool { return true }
	}
}

// View 按列表顺序返回匹配的任务，并附带原始位置
func View(tasks []model.Task, sel Selector, now time.Time) []Entry {
	match := Predicate(sel, now)

	out := make([]Entry, 0, len(tasks))
	for i, t := range tasks {
		if match(t) {
			out = append(out, Entry{Index: i, Task: t})
		}
	}
	return out
}

// Apply 与 View 相同，但不返回位置
func Apply(tasks []model.Task, sel Selector, now time.Time) []model.Task {
	entries := View(tasks, sel, now)

	out := make([]model.Task, len(entries))
	for i, e := range entries {
		out[i] = e.Task
	}
	return out
}
