// Package store 维护按插入顺序排列的内存任务列表
package store

import (
	"fmt"
	"sync"
	"time"

	"tasklist/model"
)

// Listener 接收每一次成功的变更，调用顺序与变更顺序一致。
// 回调中不能再调用 Store 的方法
type Listener interface {
	TaskChanged(change model.Change)
}

// ListenerFunc 把函数适配为 Listener
type ListenerFunc func(change model.Change)

func (f ListenerFunc) TaskChanged(change model.Change) { f(change) }

// Option 配置 Store
type Option func(*Store)

// WithClock 替换 CreatedAt/UpdatedAt 使用的时间来源，测试使用
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDisplayLayout 设置 Task.DisplayDate 的日期格式
func WithDisplayLayout(layout string) Option {
	return func(s *Store) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// WithListener 注册变更监听器
func WithListener(l Listener) Option {
	return func(s *Store) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// Store 按插入顺序保存任务。位置在下一次删除前有效，ID 在任务存续期间不变
type Store struct {
	mu        sync.RWMutex
	notifyMu  sync.Mutex // 在 mu 释放前取得，保证通知按变更顺序执行
	tasks     []model.Task
	layout    string
	now       func() time.Time
	listeners []Listener
}

// New 创建空的任务列表
func New(opts ...Option) *Store {
	s := &Store{
		layout: model.DefaultDisplayLayout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add 在末尾追加一个未完成的任务
func (s *Store) Add(text string, dueDate time.Time) (model.Task, error) {
	text, err := model.ValidateInput(text, dueDate)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	task := model.NewTask(text, dueDate, s.layout, s.now())
	s.tasks = append(s.tasks, task)
	change := model.Change{Action: model.ActionAdd, Index: len(s.tasks) - 1, Task: task, At: task.CreatedAt}
	s.unlockAndNotify(change)

	return task, nil
}

// Toggle 切换指定位置任务的完成状态
func (s *Store) Toggle(index int) (model.Task, error) {
	return s.mutate(atIndex(index), s.toggleAt)
}

// Edit 覆盖指定位置任务的文本和截止日期，位置、ID 和完成状态不变
func (s *Store) Edit(index int, text string, dueDate time.Time) (model.Task, error) {
	text, err := model.ValidateInput(text, dueDate)
	if err != nil {
		return model.Task{}, err
	}
	return s.mutate(atIndex(index), s.editAt(text, dueDate))
}

// Delete 删除指定位置的任务，后面的任务位置减一
func (s *Store) Delete(index int) (model.Task, error) {
	return s.mutate(atIndex(index), s.deleteAt)
}

// ToggleByID 按 ID 切换完成状态
func (s *Store) ToggleByID(id string) (model.Task, error) {
	return s.mutate(s.withID(id), s.toggleAt)
}

// EditByID 按 ID 编辑任务
func (s *Store) EditByID(id, text string, dueDate time.Time) (model.Task, error) {
	text, err := model.ValidateInput(text, dueDate)
	if err != nil {
		return model.Task{}, err
	}
	return s.mutate(s.withID(id), s.editAt(text, dueDate))
}

// DeleteByID 按 ID 删除任务
func (s *Store) DeleteByID(id string) (model.Task, error) {
	return s.mutate(s.withID(id), s.deleteAt)
}

// DeleteAll 清空任务列表，返回删除的数量。列表为空时不产生事件
func (s *Store) DeleteAll() int {
	s.mu.Lock()
	n := len(s.tasks)
	if n == 0 {
		s.mu.Unlock()
		return 0
	}
	s.tasks = nil
	change := model.Change{Action: model.ActionDeleteAll, Index: n, At: s.now()}
	s.unlockAndNotify(change)

	return n
}

// IndexOf 返回指定 ID 任务的当前位置
func (s *Store) IndexOf(id string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.withID(id)()
}

// locator 在持有写锁时解析任务位置
type locator func() (int, error)

// mutation 在持有写锁时修改已解析位置的任务
type mutation func(index int) model.Change

func atIndex(index int) locator {
	return func() (int, error) { return index, nil }
}

func (s *Store) withID(id string) locator {
	return func() (int, error) {
		for i, t := range s.tasks {
			if t.ID == id {
				return i, nil
			}
		}
		return -1, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
}

func (s *Store) mutate(locate locator, apply mutation) (model.Task, error) {
	s.mu.Lock()
	index, err := locate()
	if err == nil {
		err = s.checkIndex(index)
	}
	if err != nil {
		s.mu.Unlock()
		return model.Task{}, err
	}
	change := apply(index)
	s.unlockAndNotify(change)

	return change.Task, nil
}

func (s *Store) toggleAt(index int) model.Change {
	s.tasks[index].Toggle(s.now())
	task := s.tasks[index]
	return model.Change{Action: model.ActionToggle, Index: index, Task: task, At: task.UpdatedAt}
}

func (s *Store) editAt(text string, dueDate time.Time) mutation {
	return func(index int) model.Change {
		s.tasks[index].Revise(text, dueDate, s.layout, s.now())
		task := s.tasks[index]
		return model.Change{Action: model.ActionEdit, Index: index, Task: task, At: task.UpdatedAt}
	}
}

func (s *Store) deleteAt(index int) model.Change {
	task := s.tasks[index]
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	return model.Change{Action: model.ActionDelete, Index: index, Task: task, At: s.now()}
}

// Tasks 按插入顺序返回任务列表的副本
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get 返回指定位置的任务
func (s *Store) Get(index int) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkIndex(index); err != nil {
		return model.Task{}, err
	}
	return s.tasks[index], nil
}

// Len 返回任务数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.tasks) {
		return &model.IndexError{Index: index, Len: len(s.tasks)}
	}
	return nil
}

// unlockAndNotify 释放写锁并通知监听器。notifyMu 在 mu 释放前取得，
// 后一个变更的通知只能在前一个通知结束后开始
func (s *Store) unlockAndNotify(change model.Change) {
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.notify(change)
}

func (s *Store) notify(change model.Change) {
	for _, l := range s.listeners {
		l.TaskChanged(change)
	}
}
