package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"tasklist/model"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN 进程内的 SQLite 数据库，进程退出即消失
const MemoryDSN = ":memory:"

// RecordTimeout 单条事件写入的超时
const RecordTimeout = 2 * time.Second

// DB 任务变更日志
type DB struct {
	conn *sql.DB
}

// Event 一条变更记录
type Event struct {
	ID        int64        `json:"id"`
	Action    model.Action `json:"action"`
	TaskID    string       `json:"task_id,omitempty"`
	Position  int          `json:"position"`
	Text      string       `json:"text,omitempty"`
	DueDate   string       `json:"due_date,omitempty"`
	Completed bool         `json:"completed"`
	CreatedAt time.Time    `json:"created_at"`
}

func New(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// :memory: 每个连接都是独立的数据库，只保留一个连接
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Printf("Activity journal initialized at %s", dsn)
	return db, nil
}

// initSchema 初始化事件表
func (db *DB) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			action TEXT NOT NULL,
			task_id TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			text TEXT,
			due_date TEXT,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_action ON events(action);
		CREATE INDEX IF NOT EXISTS idx_events_task_id ON events(task_id);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (db *DB) Close() error {
	return db.conn.Close()
}

// TaskChanged 实现 store.Listener，写入失败只记录日志
func (db *DB) TaskChanged(change model.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), RecordTimeout)
	defer cancel()

	if err := db.RecordContext(ctx, change); err != nil {
		log.Printf("Failed to record %s event: %v", change.Action, err)
	}
}

// RecordContext 写入一条变更事件
func (db *DB) RecordContext(ctx context.Context, change model.Change) error {
	query := `
		INSERT INTO events (action, task_id, position, text, due_date, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var taskID, text, dueDate sql.NullString
	if change.Task.ID != "" {
		taskID = sql.NullString{String: change.Task.ID, Valid: true}
		text = sql.NullString{String: change.Task.Text, Valid: true}
		dueDate = sql.NullString{String: change.Task.RawDate(), Valid: true}
	}

	at := change.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := db.conn.ExecContext(
		ctx,
		query,
		string(change.Action),
		taskID,
		change.Index,
		text,
		dueDate,
		change.Task.Completed,
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// EventFilter 事件查询条件
type EventFilter struct {
	Action string
	TaskID string
	Order  string
	Limit  int
	Offset int
}

// ListEventsContext 查询变更事件，返回本页数据和总数
func (db *DB) ListEventsContext(ctx context.Context, filter EventFilter) ([]Event, int, error) {
	if filter.Order == "" {
		filter.Order = "DESC"
	} else {
		filter.Order = strings.ToUpper(filter.Order)
	}
	if filter.Order != "ASC" && filter.Order != "DESC" {
		filter.Order = "DESC"
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	baseQuery := "SELECT id, action, task_id, position, text, due_date, completed, created_at FROM events WHERE 1=1"
	countQuery := "SELECT COUNT(*) FROM events WHERE 1=1"
	args := []interface{}{}

	if filter.Action != "" {
		whereClause := " AND action = ?"
		baseQuery += whereClause
		countQuery += whereClause
		args = append(args, filter.Action)
	}

	if filter.TaskID != "" {
		whereClause := " AND task_id = ?"
		baseQuery += whereClause
		countQuery += whereClause
		args = append(args, filter.TaskID)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	// Order 已经过白名单校验
	baseQuery += fmt.Sprintf(" ORDER BY id %s LIMIT ? OFFSET ?", filter.Order)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := db.conn.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var (
			ev                    Event
			action                string
			taskID, text, dueDate sql.NullString
			createdAt             string
		)

		if err := rows.Scan(&ev.ID, &action, &taskID, &ev.Position, &text, &dueDate, &ev.Completed, &createdAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}

		ev.Action = model.Action(action)
		ev.TaskID = taskID.String
		ev.Text = text.String
		ev.DueDate = dueDate.String

		t, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to parse created_at: %w", err)
		}
		ev.CreatedAt = t

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return events, total, nil
}

// CountByActionContext 按变更类型统计事件数量
func (db *DB) CountByActionContext(ctx context.Context) (map[model.Action]int, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT action, COUNT(*) FROM events GROUP BY action`)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Action]int)
	for rows.Next() {
		var (
			action string
			n      int
		)
		if err := rows.Scan(&action, &n); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[model.Action(action)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return counts, nil
}
