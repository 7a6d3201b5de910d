package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
)

type scheduleService interface {
	CreateClass(ctx context.Context, params application.CreateClassParams) (application.Class, error)
	UpdateClass(ctx context.Context, params application.UpdateClassParams) (application.Class, error)
	GetClass(ctx context.Context, principal application.Principal, classID string) (application.Class, error)
	DeleteClass(ctx context.Context, principal application.Principal, classID string) error
	ListSchedule(ctx context.Context, params application.ListScheduleParams) ([]application.Occurrence, error)
}

type ClassHandler struct {
	service   scheduleService
	responder responder
	logger    *slog.Logger
}

func NewClassHandler(service scheduleService, logger *slog.Logger) *ClassHandler {
	base := defaultLogger(logger)
	return &ClassHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ClassHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ClassHandler", operation, attrs...)
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req classRequest
	if err := decodeRequest(r, &req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode class request", "error", err)
		h.responder.handleBindError(r.Context(), w, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "validation").ErrorContext(r.Context(), "invalid class payload", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	class, err := h.service.CreateClass(r.Context(), application.CreateClassParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "class creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("class_id", class.ID).InfoContext(r.Context(), "class created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, classResponse{Class: toClassDTO(class)})
}

func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	classID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(classID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing class id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req classRequest
	if err := decodeRequest(r, &req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "class_id", classID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode class update", "error", err)
		h.responder.handleBindError(r.Context(), w, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "class_id", classID, "error_kind", "validation").ErrorContext(r.Context(), "invalid class payload", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "class_id", classID)

	class, err := h.service.UpdateClass(r.Context(), application.UpdateClassParams{
		Principal: principal,
		ClassID:   classID,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "class update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "class updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, classResponse{Class: toClassDTO(class)})
}

func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	classID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(classID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing class id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.UserID, "class_id", classID)

	class, err := h.service.GetClass(r.Context(), principal, classID)
	if err != nil {
		logger.ErrorContext(r.Context(), "class fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, classResponse{Class: toClassDTO(class)})
}

func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	classID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(classID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing class id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "class_id", classID)

	if err := h.service.DeleteClass(r.Context(), principal, classID); err != nil {
		logger.ErrorContext(r.Context(), "class delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "class deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// ListSchedule renders the expanded occurrence view. Query parameters:
// room_id narrows to one room, from/to (YYYY-MM-DD) bound the window.
func (h *ClassHandler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"), "from")
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	to, err := parseDateParam(query.Get("to"), "to")
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "ListSchedule", "principal_id", principal.UserID)

	occurrences, err := h.service.ListSchedule(r.Context(), application.ListScheduleParams{
		Principal: principal,
		RoomID:    strings.TrimSpace(query.Get("room_id")),
		From:      from,
		To:        to,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(occurrences)).InfoContext(r.Context(), "schedule listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleResponse{Occurrences: toOccurrenceDTOs(occurrences)})
}

func parseDateParam(raw, field string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", trimmed, time.UTC)
	if err != nil {
		return nil, &application.ValidationError{FieldErrors: map[string]string{
			field: "must be a date in YYYY-MM-DD format",
		}}
	}
	return &parsed, nil
}

type classRequest struct {
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description"`
	RoomID         string   `json:"room_id" validate:"required"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string   `json:"start_time" validate:"required"`
	EndTime        string   `json:"end_time" validate:"required"`
	Teacher        string   `json:"teacher" validate:"required"`
	MaxStudents    int      `json:"max_students" validate:"gt=0"`
	Students       []string `json:"students"`
	Recurring      bool     `json:"recurring"`
	Pattern        string   `json:"pattern"`
	RecurrenceKind string   `json:"recurrence_kind"`
	RecurrenceEnd  string   `json:"recurrence_end" validate:"omitempty,datetime=2006-01-02"`
}

func (r classRequest) toInput() (application.ClassInput, error) {
	date, err := time.ParseInLocation("2006-01-02", r.Date, time.UTC)
	if err != nil {
		return application.ClassInput{}, &application.ValidationError{FieldErrors: map[string]string{
			"date": "must be a date in YYYY-MM-DD format",
		}}
	}

	var recurrenceEnd *time.Time
	if strings.TrimSpace(r.RecurrenceEnd) != "" {
		end, err := time.ParseInLocation("2006-01-02", r.RecurrenceEnd, time.UTC)
		if err != nil {
			return application.ClassInput{}, &application.ValidationError{FieldErrors: map[string]string{
				"recurrence_end": "must be a date in YYYY-MM-DD format",
			}}
		}
		recurrenceEnd = &end
	}

	return application.ClassInput{
		Title:          r.Title,
		Description:    r.Description,
		RoomID:         r.RoomID,
		Date:           date,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Teacher:        r.Teacher,
		MaxStudents:    r.MaxStudents,
		Students:       r.Students,
		Recurring:      r.Recurring,
		Pattern:        application.RecurrencePattern(strings.TrimSpace(r.Pattern)),
		RecurrenceKind: application.RecurrenceKind(strings.TrimSpace(r.RecurrenceKind)),
		RecurrenceEnd:  recurrenceEnd,
	}, nil
}

type classResponse struct {
	Class classDTO `json:"class"`
}

type scheduleResponse struct {
	Occurrences []occurrenceDTO `json:"occurrences"`
}

type classDTO struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	RoomID         string   `json:"room_id"`
	Date           string   `json:"date"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	Teacher        string   `json:"teacher"`
	MaxStudents    int      `json:"max_students"`
	Students       []string `json:"students,omitempty"`
	Recurring      bool     `json:"recurring"`
	Pattern        string   `json:"pattern,omitempty"`
	RecurrenceKind string   `json:"recurrence_kind,omitempty"`
	RecurrenceEnd  string   `json:"recurrence_end,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type occurrenceDTO struct {
	ClassID string   `json:"class_id"`
	Date    string   `json:"date"`
	Virtual bool     `json:"virtual"`
	Class   classDTO `json:"class"`
}

func toClassDTO(class application.Class) classDTO {
	dto := classDTO{
		ID:             class.ID,
		Title:          class.Title,
		Description:    class.Description,
		RoomID:         class.RoomID,
		Date:           formatDate(class.Date),
		StartTime:      class.StartTime,
		EndTime:        class.EndTime,
		Teacher:        class.Teacher,
		MaxStudents:    class.MaxStudents,
		Students:       class.Students,
		Recurring:      class.Recurring,
		Pattern:        string(class.Pattern),
		RecurrenceKind: string(class.RecurrenceKind),
		CreatedAt:      formatTimestamp(class.CreatedAt),
		UpdatedAt:      formatTimestamp(class.UpdatedAt),
	}
	if class.RecurrenceEnd != nil {
		dto.RecurrenceEnd = formatDate(*class.RecurrenceEnd)
	}
	return dto
}

func toOccurrenceDTOs(occurrences []application.Occurrence) []occurrenceDTO {
	if len(occurrences) == 0 {
		return nil
	}
	out := make([]occurrenceDTO, 0, len(occurrences))
	for _, occurrence := range occurrences {
		out = append(out, occurrenceDTO{
			ClassID: occurrence.Key.ClassID,
			Date:    formatDate(occurrence.Key.Date),
			Virtual: occurrence.Virtual,
			Class:   toClassDTO(occurrence.Class),
		})
	}
	return out
}
