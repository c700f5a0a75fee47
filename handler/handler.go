package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"tasklist/database"
	"tasklist/filter"
	"tasklist/model"
	"tasklist/store"
)

// Response 统一响应格式
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// TaskRequest 新建或编辑任务的请求体
type TaskRequest struct {
	Text    string `json:"text" example:"Buy groceries"`
	DueDate string `json:"due_date" example:"2024-03-10"`
}

// ErrorInfo 错误信息
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TaskStats 统计响应，启用变更日志时附带各类变更的数量
type TaskStats struct {
	filter.Stats
	Activity map[model.Action]int `json:"activity,omitempty"`
}

// TaskList 列表响应
type TaskList struct {
	Filter filter.Selector `json:"filter"`
	Tasks  []filter.Entry  `json:"tasks"`
	Total  int             `json:"total"`
}

// Handler 处理器结构体
type Handler struct {
	store   *store.Store
	journal *database.DB
	loc     *time.Location
	now     func() time.Time
}

// 超时配置
const (
	ActivityTimeout = 5 * time.Second // 变更日志查询超时
	StatsTimeout    = 3 * time.Second // 变更统计查询超时
)

type Option func(*Handler)

// WithJournal 启用 /activity 接口
func WithJournal(db *database.DB) Option {
	return func(h *Handler) { h.journal = db }
}

// WithLocation 设置计算 "today" 使用的时区
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		if loc != nil {
			h.loc = loc
		}
	}
}

// WithClock 替换当前时间来源，测试使用
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler 创建新的处理器
func NewHandler(s *store.Store, opts ...Option) *Handler {
	h := &Handler{
		store: s,
		loc:   time.Local,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// referenceNow 过滤使用的参考时间
func (h *Handler) referenceNow() time.Time {
	return h.now().In(h.loc)
}

// sendJSON 发送JSON响应
func (h *Handler) sendJSON(w http.ResponseWriter, status int, response Response) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(response); err != nil {
		// 编码失败直接返回纯文本，不能再调用 sendError
		log.Printf("Failed to encode response: %v", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error: Failed to encode response"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// sendError 发送错误响应
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	response := Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
	h.sendJSON(w, status, response)
}

// sendStoreError 把 store 返回的错误映射为 HTTP 响应
func (h *Handler) sendStoreError(w http.ResponseWriter, op string, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		h.sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	case errors.Is(err, model.ErrIndexOutOfRange), errors.Is(err, model.ErrNotFound):
		h.sendError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		log.Printf("Failed to %s task: %v", op, err)
		h.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "操作失败")
	}
}

// taskRef 路径参数 {ref}：整数为当前位置，否则按任务 ID 处理
type taskRef struct {
	index int
	id    string
}

func parseRef(raw string) (taskRef, error) {
	if raw == "" {
		return taskRef{}, errors.New("missing task reference")
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return taskRef{index: i}, nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return taskRef{}, fmt.Errorf("invalid task reference %q", raw)
	}
	return taskRef{id: raw}, nil
}

// decodeTask 解析请求体，返回去除首尾空白的文本和截止日期
func (h *Handler) decodeTask(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 限制1MB

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("JSON解析失败: %v", err))
		return "", time.Time{}, false
	}

	due, err := model.ParseDueDate(req.DueDate)
	if err != nil {
		h.sendStoreError(w, "parse", err)
		return "", time.Time{}, false
	}
	text, err := model.ValidateInput(req.Text, due)
	if err != nil {
		h.sendStoreError(w, "validate", err)
		return "", time.Time{}, false
	}
	return text, due, true
}

// HealthCheck 健康检查
// @Summary 健康检查
// @Description 返回应用当前健康状态
// @Tags health
// @Produce json
// @Success 200 {object} handler.Response
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := Response{
		Success: true,
		Data: map[string]interface{}{
			"status":    "ok",
			"timestamp": h.now().UTC().Format(time.RFC3339),
			"tasks":     h.store.Len(),
		},
		Message: "服务运行正常",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// ListTasks 按视图获取任务列表
// @Summary 获取任务列表
// @Description 按 all/today/week/month/completed/pending 过滤，未知视图返回全部
// @Tags tasks
// @Param filter query string false "视图" Enums(all,today,week,month,completed,pending)
// @Produce json
// @Success 200 {object} handler.Response{data=handler.TaskList}
// @Router /tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	sel := filter.ParseSelector(r.URL.Query().Get("filter"))
	entries := filter.View(h.store.Tasks(), sel, h.referenceNow())

	response := Response{
		Success: true,
		Data: TaskList{
			Filter: sel,
			Tasks:  entries,
			Total:  len(entries),
		},
		Message: "获取任务列表成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// CreateTask 新建任务
// @Summary 新建任务
// @Description 文本和截止日期(YYYY-MM-DD)均为必填
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body handler.TaskRequest true "任务内容"
// @Success 201 {object} handler.Response{data=model.Task}
// @Failure 400 {object} handler.Response
// @Router /tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	text, due, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	task, err := h.store.Add(text, due)
	if err != nil {
		h.sendStoreError(w, "create", err)
		return
	}

	response := Response{
		Success: true,
		Data:    task,
		Message: "创建任务成功",
	}
	h.sendJSON(w, http.StatusCreated, response)
}

// UpdateTask 编辑任务
// @Summary 编辑任务
// @Description 覆盖文本和截止日期，完成状态和位置不变
// @Tags tasks
// @Accept json
// @Produce json
// @Param ref path string true "任务位置或ID"
// @Param task body handler.TaskRequest true "任务内容"
// @Success 200 {object} handler.Response{data=model.Task}
// @Failure 400 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /tasks/{ref} [put]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	ref, err := parseRef(r.PathValue("ref"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	text, due, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	var task model.Task
	if ref.id != "" {
		task, err = h.store.EditByID(ref.id, text, due)
	} else {
		task, err = h.store.Edit(ref.index, text, due)
	}
	if err != nil {
		h.sendStoreError(w, "update", err)
		return
	}

	response := Response{
		Success: true,
		Data:    task,
		Message: "更新任务成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// ToggleTask 切换完成状态
// @Summary 切换完成状态
// @Tags tasks
// @Produce json
// @Param ref path string true "任务位置或ID"
// @Success 200 {object} handler.Response{data=model.Task}
// @Failure 404 {object} handler.Response
// @Router /tasks/{ref}/toggle [post]
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ref, err := parseRef(r.PathValue("ref"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var task model.Task
	if ref.id != "" {
		task, err = h.store.ToggleByID(ref.id)
	} else {
		task, err = h.store.Toggle(ref.index)
	}
	if err != nil {
		h.sendStoreError(w, "toggle", err)
		return
	}

	response := Response{
		Success: true,
		Data:    task,
		Message: "更新任务状态成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// DeleteTask 删除单个任务，调用前由客户端确认
// @Summary 删除任务
// @Tags tasks
// @Produce json
// @Param ref path string true "任务位置或ID"
// @Success 200 {object} handler.Response{data=model.Task}
// @Failure 404 {object} handler.Response
// @Router /tasks/{ref} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ref, err := parseRef(r.PathValue("ref"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var task model.Task
	if ref.id != "" {
		task, err = h.store.DeleteByID(ref.id)
	} else {
		task, err = h.store.Delete(ref.index)
	}
	if err != nil {
		h.sendStoreError(w, "delete", err)
		return
	}

	response := Response{
		Success: true,
		Data:    task,
		Message: "删除任务成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// DeleteAllTasks 清空任务
// @Summary 清空任务
// @Tags tasks
// @Produce json
// @Success 200 {object} handler.Response
// @Router /tasks [delete]
func (h *Handler) DeleteAllTasks(w http.ResponseWriter, r *http.Request) {
	n := h.store.DeleteAll()

	response := Response{
		Success: true,
		Data:    map[string]int{"deleted": n},
		Message: "清空任务成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// GetStats 获取统计信息
// @Summary 获取统计信息
// @Tags tasks
// @Produce json
// @Success 200 {object} handler.Response{data=handler.TaskStats}
// @Failure 408 {object} handler.Response
// @Router /tasks/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := TaskStats{Stats: filter.Summarize(h.store.Tasks(), h.referenceNow())}

	if h.journal != nil {
		ctx, cancel := context.WithTimeout(r.Context(), StatsTimeout)
		defer cancel()

		counts, err := h.journal.CountByActionContext(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Printf("GetStats timeout: %v", err)
				h.sendError(w, http.StatusRequestTimeout, "TIMEOUT", "查询超时，请稍后重试")
				return
			}
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("Failed to count activity: %v", err)
			h.sendError(w, http.StatusInternalServerError, "DATABASE_ERROR", "统计失败")
			return
		}
		stats.Activity = counts
	}

	response := Response{
		Success: true,
		Data:    stats,
		Message: "获取统计信息成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// ListActivity 获取变更日志(带超时控制)
// @Summary 获取变更日志
// @Tags activity
// @Param action query string false "变更类型" Enums(add,toggle,edit,delete,delete_all)
// @Param task_id query string false "任务ID"
// @Param order query string false "排序方式" Enums(asc,desc)
// @Param limit query int false "返回条数" default(50)
// @Param offset query int false "偏移量" default(0)
// @Produce json
// @Success 200 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Failure 408 {object} handler.Response
// @Router /activity [get]
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		h.sendError(w, http.StatusNotFound, "JOURNAL_DISABLED", "变更日志未启用")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ActivityTimeout)
	defer cancel()

	q := r.URL.Query()
	f := database.EventFilter{
		Action: q.Get("action"),
		TaskID: q.Get("task_id"),
		Order:  q.Get("order"),
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		f.Limit = l
	}
	if o, err := strconv.Atoi(q.Get("offset")); err == nil && o >= 0 {
		f.Offset = o
	}

	events, total, err := h.journal.ListEventsContext(ctx, f)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("ListActivity timeout: %v", err)
			h.sendError(w, http.StatusRequestTimeout, "TIMEOUT", "查询超时，请稍后重试")
			return
		}
		if errors.Is(err, context.Canceled) {
			// 客户端取消请求,不需要响应
			return
		}
		log.Printf("Failed to list activity: %v", err)
		h.sendError(w, http.StatusInternalServerError, "DATABASE_ERROR", "查询失败")
		return
	}

	response := Response{
		Success: true,
		Data: map[string]interface{}{
			"events": events,
			"total":  total,
		},
		Message: "获取变更日志成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}
