package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDisplayLayout 日/月/年，零填充
const DefaultDisplayLayout = "02/01/2006"

// DateLayout 输入与 JSON 中使用的原始日期格式
const DateLayout = "2006-01-02"

// Task 表示一个待办任务
type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	DueDate     time.Time `json:"-"`
	DisplayDate string    `json:"display_date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask 创建一个新的任务，调用方需要先完成校验
func NewTask(text string, dueDate time.Time, layout string, now time.Time) Task {
	due := DateOf(dueDate, time.UTC)
	return Task{
		ID:          uuid.New().String(),
		Text:        text,
		DueDate:     due,
		DisplayDate: FormatDisplayDate(due, layout),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Toggle 切换完成状态
func (t *Task) Toggle(now time.Time) {
	t.Completed = !t.Completed
	t.UpdatedAt = now
}

// Revise 覆盖文本和日期，完成状态和 ID 保持不变
func (t *Task) Revise(text string, dueDate time.Time, layout string, now time.Time) {
	due := DateOf(dueDate, time.UTC)
	t.Text = text
	t.DueDate = due
	t.DisplayDate = FormatDisplayDate(due, layout)
	t.UpdatedAt = now
}

// RawDate 返回编辑表单使用的 YYYY-MM-DD
func (t Task) RawDate() string {
	return t.DueDate.Format(DateLayout)
}

// MarshalJSON 以 YYYY-MM-DD 输出 due_date
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	return json.Marshal(struct {
		alias
		DueDate string `json:"due_date"`
	}{alias(t), t.RawDate()})
}

// ValidateInput 校验文本与日期，返回去除首尾空白后的文本
func ValidateInput(text string, dueDate time.Time) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Field: "text", Message: "task text is required"}
	}
	if dueDate.IsZero() {
		return "", &ValidationError{Field: "due_date", Message: "due date is required"}
	}
	return text, nil
}
