package model

import "time"

// Action 变更类型
type Action string

const (
	ActionAdd       Action = "add"
	ActionToggle    Action = "toggle"
	ActionEdit      Action = "edit"
	ActionDelete    Action = "delete"
	ActionDeleteAll Action = "delete_all"
)

// Change 一次成功的变更。DeleteAll 时 Task 为零值，Index 为删除数量
type Change struct {
	Action Action
	Index  int
	Task   Task
	At     time.Time
}
