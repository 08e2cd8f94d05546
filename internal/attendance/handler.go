package attendance

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/transport"
	"github.com/zonoapp/workforce/pkg/logger"
)

type ServiceAPI interface {
	ClockIn(ctx context.Context, actor *internal.Actor, dto ClockInDTO) (*Attendance, error)
	ClockOut(ctx context.Context, actor *internal.Actor, dto ClockOutDTO) (*Attendance, error)
	Edit(ctx context.Context, actor *internal.Actor, id int64, dto EditAttendanceDTO) (*Attendance, error)
	MarkAbsent(ctx context.Context, actor *internal.Actor, dto MarkAbsentDTO) ([]*Attendance, error)
	ListDay(actor *internal.Actor, date string) ([]*Attendance, error)
	ExportDay(actor *internal.Actor, date string) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ClockInDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ClockIn: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.EmployeeID == 0 {
		dto.EmployeeID = actor.EmployeeID
	}

	row, err := h.Service.ClockIn(r.Context(), actor, dto)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ClockOutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ClockOut: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.EmployeeID == 0 {
		dto.EmployeeID = actor.EmployeeID
	}

	row, err := h.Service.ClockOut(r.Context(), actor, dto)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) EditAttendance(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid attendance ID")
		return
	}

	var dto EditAttendanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("EditAttendance: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.Edit(r.Context(), actor, id, dto)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) MarkAbsent(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto MarkAbsentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("MarkAbsent: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rows, err := h.Service.MarkAbsent(r.Context(), actor, dto)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) ListDay(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rows, err := h.Service.ListDay(actor, r.URL.Query().Get("date"))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) ExportDay(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	table, err := h.Service.ExportDay(actor, r.URL.Query().Get("date"))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(table))
}
