package swap

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
	Request(ctx context.Context, actor *internal.Actor, shiftID int64, dto RequestSwapDTO) (*Swap, error)
	Accept(ctx context.Context, actor *internal.Actor, id int64) (*Swap, error)
	Approve(ctx context.Context, actor *internal.Actor, id int64) (*Swap, error)
	Decline(ctx context.Context, actor *internal.Actor, id int64) (*Swap, error)
	Cancel(ctx context.Context, actor *internal.Actor, id int64) (*Swap, error)
	ListMine(actor *internal.Actor) ([]*Swap, error)
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

func (h *Handler) RequestSwap(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	shiftID, err := strconv.ParseInt(chi.URLParam(r, "shiftID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shift ID")
		return
	}

	var dto RequestSwapDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RequestSwap: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Request(r.Context(), actor, shiftID, dto)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// transition maps the accept/approve/decline/cancel endpoints onto one
// shape; the service enforces which actor may drive which transition.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actor *internal.Actor, id int64) (*Swap, error)) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid swap ID")
		return
	}

	updated, err := fn(r.Context(), actor, id)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) AcceptSwap(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Accept)
}

func (h *Handler) ApproveSwap(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Approve)
}

func (h *Handler) DeclineSwap(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Decline)
}

func (h *Handler) CancelSwap(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Cancel)
}

func (h *Handler) ListMySwaps(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	swaps, err := h.Service.ListMine(actor)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, swaps)
}
