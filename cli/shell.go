package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tasklist/filter"
	"tasklist/model"
	"tasklist/render"
	"tasklist/store"
)

const (
	noticeAddFields  = "Please fill in both task and due date!"
	noticeEditFields = "Please fill in all fields!"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Manage tasks interactively in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		sh := NewShell(a.store, cmd.InOrStdin(), cmd.OutOrStdout(), a.loc)
		return sh.Run()
	},
}

// Shell 基于行输入的终端界面，每次成功变更后重新渲染当前视图
type Shell struct {
	store *store.Store
	in    *bufio.Scanner
	out   io.Writer
	loc   *time.Location
	now   func() time.Time
	view  filter.Selector
}

// NewShell 创建终端界面，loc 为空时使用本地时区
func NewShell(s *store.Store, in io.Reader, out io.Writer, loc *time.Location) *Shell {
	if loc == nil {
		loc = time.Local
	}
	return &Shell{
		store: s,
		in:    bufio.NewScanner(in),
		out:   out,
		loc:   loc,
		now:   time.Now,
		view:  filter.All,
	}
}

var errQuit = errors.New("quit")

// Run 读取命令直到 EOF 或 quit
func (sh *Shell) Run() error {
	if err := sh.render(); err != nil {
		return err
	}
	for {
		fmt.Fprint(sh.out, "> ")
		line, ok := sh.readLine()
		if !ok {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		if err := sh.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

func (sh *Shell) readLine() (string, bool) {
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

func (sh *Shell) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "add":
		return sh.add(args)
	case "toggle", "done":
		return sh.toggle(args)
	case "edit":
		return sh.edit(args)
	case "rm", "delete":
		return sh.remove(args)
	case "clear":
		return sh.clear()
	case "filter":
		raw := ""
		if len(args) > 0 {
			raw = args[0]
		}
		sh.view = filter.ParseSelector(raw)
		return sh.render()
	case "list", "ls":
		return sh.render()
	case "stats":
		return render.Stats(sh.out, filter.Summarize(sh.store.Tasks(), sh.referenceNow()))
	case "help", "?":
		return render.Help(sh.out)
	case "quit", "exit", "q":
		return errQuit
	default:
		if err := render.Notice(sh.out, fmt.Sprintf("unknown command %q", cmd)); err != nil {
			return err
		}
		return render.Help(sh.out)
	}
}

func (sh *Shell) add(args []string) error {
	if len(args) < 2 {
		return render.Notice(sh.out, noticeAddFields)
	}
	due, err := model.ParseDueDate(args[0])
	if err != nil {
		return sh.notice(err, noticeAddFields)
	}
	if _, err := sh.store.Add(strings.Join(args[1:], " "), due); err != nil {
		return sh.notice(err, noticeAddFields)
	}
	return sh.render()
}

func (sh *Shell) toggle(args []string) error {
	index, ok, err := sh.position(args)
	if !ok {
		return err
	}
	if _, err := sh.store.Toggle(index); err != nil {
		return sh.notice(err, "")
	}
	return sh.render()
}

func (sh *Shell) edit(args []string) error {
	if len(args) < 3 {
		return render.Notice(sh.out, noticeEditFields)
	}
	index, ok, err := sh.position(args[:1])
	if !ok {
		return err
	}
	due, err := model.ParseDueDate(args[1])
	if err != nil {
		return sh.notice(err, noticeEditFields)
	}
	if _, err := sh.store.Edit(index, strings.Join(args[2:], " "), due); err != nil {
		return sh.notice(err, noticeEditFields)
	}
	return sh.render()
}

func (sh *Shell) remove(args []string) error {
	index, ok, err := sh.position(args)
	if !ok {
		return err
	}
	task, err := sh.store.Get(index)
	if err != nil {
		return sh.notice(err, "")
	}
	if !sh.confirm(fmt.Sprintf("Are you sure you want to delete %q?", task.Text)) {
		return nil
	}
	if _, err := sh.store.DeleteByID(task.ID); err != nil {
		return sh.notice(err, "")
	}
	return sh.render()
}

func (sh *Shell) clear() error {
	if sh.store.Len() == 0 {
		return nil
	}
	if !sh.confirm("Are you sure you want to delete all tasks?") {
		return nil
	}
	sh.store.DeleteAll()
	return sh.render()
}

// position 解析从 1 开始的任务编号。输入无效时 ok 为 false，
// 只有写提示失败时 err 才非空
func (sh *Shell) position(args []string) (index int, ok bool, err error) {
	if len(args) == 0 {
		return 0, false, render.Notice(sh.out, "task number required")
	}
	n, convErr := strconv.Atoi(args[0])
	if convErr != nil {
		return 0, false, render.Notice(sh.out, fmt.Sprintf("invalid task number %q", args[0]))
	}
	return n - 1, true, nil
}

func (sh *Shell) confirm(prompt string) bool {
	fmt.Fprintf(sh.out, "%s [y/N] ", prompt)
	answer, ok := sh.readLine()
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// notice 向用户提示 store 返回的错误，校验失败使用 validationMsg
func (sh *Shell) notice(err error, validationMsg string) error {
	var ierr *model.IndexError
	switch {
	case errors.As(err, &ierr):
		return render.Notice(sh.out, fmt.Sprintf("no task %d", ierr.Index+1))
	case errors.Is(err, model.ErrValidation) && validationMsg != "":
		return render.Notice(sh.out, validationMsg)
	default:
		return render.Notice(sh.out, err.Error())
	}
}

func (sh *Shell) referenceNow() time.Time {
	return sh.now().In(sh.loc)
}

func (sh *Shell) render() error {
	entries := filter.View(sh.store.Tasks(), sh.view, sh.referenceNow())
	return render.List(sh.out, sh.view, entries)
}
