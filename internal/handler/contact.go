package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/handler/dto"
	"github.com/contactly/contactly/internal/service"
)

// ContactHandler handles HTTP requests for contact operations.
type ContactHandler struct {
	svc    *service.ContactService
	logger *slog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		svc:    svc,
		logger: logger,
	}
}

func toContactInput(req dto.ContactRequest) service.ContactInput {
	return service.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName.Ptr(),
		Email:     req.Email.Ptr(),
		Phone:     req.Phone.Ptr(),
	}
}

// Create handles POST /api/contacts.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := auth.UserIDFromContext(r.Context())

	contact, err := h.svc.Create(r.Context(), ownerID, toContactInput(req))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("contact_created",
		"contact_id", contact.ID,
		"user_id", ownerID,
	)

	writeData(w, http.StatusCreated, dto.ToContactResponse(contact))
}

// Get handles GET /api/contacts/{id}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contact, err := h.svc.Get(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, dto.ToContactResponse(contact))
}

// Update handles PUT /api/contacts/{id}.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := auth.UserIDFromContext(r.Context())

	contact, err := h.svc.Update(r.Context(), ownerID, chi.URLParam(r, "id"), toContactInput(req))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("contact_updated",
		"contact_id", contact.ID,
		"user_id", ownerID,
	)

	writeData(w, http.StatusOK, dto.ToContactResponse(contact))
}

// Delete handles DELETE /api/contacts/{id}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ownerID := auth.UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), ownerID, id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("contact_deleted",
		"contact_id", id,
		"user_id", ownerID,
	)

	writeData(w, http.StatusOK, true)
}

// List handles GET /api/contacts.
// Unparseable page or size values fall back to the defaults.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.SearchInput{
		OwnerID: auth.UserIDFromContext(r.Context()),
		Name:    query.Get("name"),
		Email:   query.Get("email"),
		Phone:   query.Get("phone"),
		Page:    queryInt(query.Get("page")),
		Size:    queryInt(query.Get("size")),
	}

	page, err := h.svc.Search(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContactListResponse(page, r.URL))
}

// queryInt parses a query value, returning 0 when absent or invalid.
func queryInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
