package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/LBS-SchedulingService/internal/api/handlers"
)

type contextKey string

const (
	clientRefKey contextKey = "clientRef"
	userRoleKey  contextKey = "userRole"
	requestIDKey contextKey = "requestID"
)

const (
	headerClientRef = "X-Client-Ref"
	headerUserRole  = "X-User-Role"
	headerRequestID = "X-Request-ID"

	roleAdmin = "admin"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// HTTPMetrics интерфейс для записи HTTP метрик
type HTTPMetrics interface {
	ObserveHTTPRequest(method, path, status string, seconds float64)
}

// RequestID проставляет идентификатор запроса из заголовка или генерирует
// новый, и возвращает его клиенту
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(headerRequestID, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Auth извлекает ссылку на клиента и роль из заголовков шлюза.
// Сам шлюз отвечает за аутентификацию, сервис доверяет заголовкам.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if clientRef := r.Header.Get(headerClientRef); clientRef != "" {
			ctx = context.WithValue(ctx, clientRefKey, clientRef)
		}
		if role := r.Header.Get(headerUserRole); role != "" {
			ctx = context.WithValue(ctx, userRoleKey, role)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireClient пропускает только запросы с проставленной ссылкой на клиента
func RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetClientRef(r.Context()); !ok {
			handlers.RespondUnauthorized(w, "отсутствует идентификатор клиента")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin пропускает только запросы администратора
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			handlers.RespondForbidden(w, "требуются права администратора")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Metrics записывает длительность и статус каждого запроса.
// Путь берется из шаблона маршрута, чтобы не плодить метки на каждый ID.
func Metrics(m HTTPMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if template, err := route.GetPathTemplate(); err == nil {
					path = template
				}
			}

			m.ObserveHTTPRequest(r.Method, path, strconv.Itoa(recorder.status), time.Since(start).Seconds())
		})
	}
}

// Logging пишет строку доступа по завершении запроса
func Logging(log Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			requestID, _ := GetRequestID(r.Context())
			log.Info("%s %s - %s (%s) request_id=%s",
				r.Method, r.URL.Path, strconv.Itoa(recorder.status), time.Since(start), requestID)
		})
	}
}

// GetClientRef возвращает ссылку на клиента из контекста
func GetClientRef(ctx context.Context) (string, bool) {
	clientRef, ok := ctx.Value(clientRefKey).(string)
	return clientRef, ok
}

// IsAdmin возвращает true, если запрос выполняет администратор
func IsAdmin(ctx context.Context) bool {
	role, ok := ctx.Value(userRoleKey).(string)
	return ok && role == roleAdmin
}

// GetRequestID возвращает идентификатор запроса из контекста
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// statusRecorder запоминает статус ответа для метрик и логирования
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
