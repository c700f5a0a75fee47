package api

import (
	"log"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "tasklist/docs"
	"tasklist/handler"
)

// corsMiddleware 处理 CORS 跨域请求
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// 处理预检请求
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// recoverMiddleware 捕获 panic 防止服务崩溃
func recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

// statusRecorder 记录响应状态码
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logMiddleware 请求日志
func logMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	}
}

// chain 链接多个中间件
func chain(f http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		f = middlewares[i](f)
	}
	return f
}

// SetupRoutes 注册所有路由
func SetupRoutes(h *handler.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	withMiddlewares := func(f http.HandlerFunc) http.HandlerFunc {
		return chain(f, logMiddleware, corsMiddleware, recoverMiddleware)
	}

	optionsHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	registerTaskRoutes := func(base string) {
		mux.HandleFunc("GET "+base, withMiddlewares(h.ListTasks))
		mux.HandleFunc("POST "+base, withMiddlewares(h.CreateTask))
		mux.HandleFunc("DELETE "+base, withMiddlewares(h.DeleteAllTasks))
		mux.HandleFunc("OPTIONS "+base, withMiddlewares(optionsHandler))

		mux.HandleFunc("GET "+base+"/stats", withMiddlewares(h.GetStats))

		mux.HandleFunc("PUT "+base+"/{ref}", withMiddlewares(h.UpdateTask))
		mux.HandleFunc("DELETE "+base+"/{ref}", withMiddlewares(h.DeleteTask))
		mux.HandleFunc("POST "+base+"/{ref}/toggle", withMiddlewares(h.ToggleTask))
		mux.HandleFunc("OPTIONS "+base+"/{ref}", withMiddlewares(optionsHandler))
		mux.HandleFunc("OPTIONS "+base+"/{ref}/toggle", withMiddlewares(optionsHandler))
	}

	// 带版本的路由，同时保留旧路径
	registerTaskRoutes("/api/v1/tasks")
	registerTaskRoutes("/api/tasks")

	mux.HandleFunc("GET /api/v1/activity", withMiddlewares(h.ListActivity))

	mux.HandleFunc("/health", h.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return mux
}
