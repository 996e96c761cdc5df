package manage_closures

import (
	"errors"
	"net/http"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	"github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
)

const (
	msgInvalidParams      = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidClosureID   = "некорректный ID закрытия"
	msgNotFound           = "закрытие не найдено"
	msgAlreadyClosed      = "слот уже закрыт на эту дату"
)

type Handler struct {
	service ClosureService
	logger  Logger
}

func NewHandler(service ClosureService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/closures
// Query params: from, to (опционально)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		h.logger.Warn("GET /admin/closures - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		h.logger.Warn("GET /admin/closures - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	items, err := h.service.ListClosures(r.Context(), models.ListClosuresRequest{From: from, To: to})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("GET /admin/closures - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /admin/closures - Failed to list closures: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, newClosureListResponse(items))
}

// Create POST /api/v1/admin/closures
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateClosureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/closures - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	closure, err := h.service.CreateClosure(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /admin/closures - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, catalog.ErrClosureExists):
			h.logger.Warn("POST /admin/closures - Already closed: date=%s, slot=%q", req.Date, req.Slot)
			handlers.RespondConflict(w, handlers.CodeConflict, msgAlreadyClosed)

		default:
			h.logger.Error("POST /admin/closures - Failed to create closure: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/closures - Closure created: id=%d, date=%s, slot=%q", closure.ID, closure.Date, closure.Slot)
	handlers.RespondJSON(w, http.StatusCreated, closure)
}

// Delete DELETE /api/v1/admin/closures/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	closureID, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /admin/closures/{id} - Invalid closure ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClosureID)
		return
	}

	if err := h.service.DeleteClosure(r.Context(), closureID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrClosureNotFound):
			h.logger.Warn("DELETE /admin/closures/{id} - Closure not found: id=%d", closureID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /admin/closures/{id} - Failed to delete closure: id=%d, error=%v", closureID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/closures/{id} - Closure deleted: id=%d", closureID)
	handlers.RespondNoContent(w)
}
