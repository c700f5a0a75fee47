package filter

import (
	"time"

	"tasklist/model"
)

// Stats 各视图的任务数量，Overdue、Today、ThisWeek 只统计未完成任务
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
}

// Summarize 统计任务数量
func Summarize(tasks []model.Task, now time.Time) Stats {
	today := model.DateOf(now, now.Location())
	inToday := Predicate(Today, now)
	inWeek := Predicate(Week, now)

	var st Stats
	st.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
			continue
		}
		st.Pending++
		if t.DueDate.Before(today) {
			st.Overdue++
		}
		if inToday(t) {
			st.Today++
		}
		if inWeek(t) {
			st.ThisWeek++
		}
	}
	return st
}
