// Package render 绘制终端界面的任务列表
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasklist/filter"
)

// EmptyState 当前视图没有任务时显示
const EmptyState = "No tasks found"

var (
	titleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFDF5")).
		Background(lipgloss.Color("#25A065")).
		Padding(0, 1).
		Bold(true)

	taskStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	completedTaskStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#A6E3A1")).
		Strikethrough(true)

	dateStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#89B4FA"))

	emptyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6C7086")).
		Italic(true).
		PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F38BA8")).
		Bold(true)

	helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6C7086"))
)

// List 输出视图标题和每个任务一行，编号为完整列表中从 1 开始的位置
func List(w io.Writer, sel filter.Selector, entries []filter.Entry) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Tasks · %s", sel)))
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString(emptyStyle.Render(EmptyState))
		b.WriteString("\n")
	}

	for _, e := range entries {
		box := "[ ]"
		text := e.Task.Text
		if e.Task.Completed {
			box = "[x]"
			text = completedTaskStyle.Render(text)
		}
		line := fmt.Sprintf("%3d. %s %s  %s", e.Index+1, box, text, dateStyle.Render(e.Task.DisplayDate))
		b.WriteString(taskStyle.Render(line))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Stats 输出一行统计信息
func Stats(w io.Writer, st filter.Stats) error {
	line := fmt.Sprintf("total %d · pending %d · completed %d · overdue %d · today %d · this week %d",
		st.Total, st.Pending, st.Completed, st.Overdue, st.Today, st.ThisWeek)
	_, err := fmt.Fprintln(w, helpStyle.Render(line))
	return err
}

// Notice 输出校验失败等提示信息
func Notice(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, errorStyle.Render(msg))
	return err
}

// Help 输出命令说明
func Help(w io.Writer) error {
	lines := []string{
		"add <YYYY-MM-DD> <text>         add a task",
		"toggle <n>                      complete / reopen task n",
		"edit <n> <YYYY-MM-DD> <text>    replace text and due date of task n",
		"rm <n>                          delete task n",
		"clear                           delete all tasks",
		"filter <" + selectorNames() + ">",
		"list | stats | help | quit",
	}
	_, err := fmt.Fprintln(w, helpStyle.Render(strings.Join(lines, "\n")))
	return err
}

func selectorNames() string {
	names := make([]string, 0, len(filter.Selectors()))
	for _, s := range filter.Selectors() {
		names = append(names, s.String())
	}
	return strings.Join(names, "|")
}
