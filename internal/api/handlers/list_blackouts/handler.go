package list_blackouts

import (
	"net/http"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

const msgInvalidFromDate = "некорректный параметр from, ожидается формат YYYY-MM-DD"

type Handler struct {
	service      ScheduleService
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(service ScheduleService, timeProvider TimeProvider, logger Logger) *Handler {
	return &Handler{
		service:      service,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Handle GET /api/v1/schedule/blackouts?from=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// По умолчанию показываем блокировки начиная с сегодняшней даты
	from := h.timeProvider.Now().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /schedule/blackouts - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFromDate)
			return
		}
		from = parsed
	}

	result, err := h.service.ListBlackouts(r.Context(), from)
	if err != nil {
		h.logger.Error("GET /schedule/blackouts - Failed to list blackouts: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /schedule/blackouts - Retrieved %d blackouts", len(result.Blackouts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
