package contribution

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FaisalEngish/Kontrib/pkg/middleware"
	"github.com/FaisalEngish/Kontrib/pkg/response"
)

// Handler handles HTTP requests for contribution operations
type Handler struct {
	service *Service
}

// NewHandler creates a new contribution handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for contribution endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireUser)

	r.Post("/", h.Submit)
	r.Get("/mine", h.ListMine)
	r.Get("/admin", h.ListForAdmin)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}/confirm", h.Confirm)
	r.Patch("/{id}/reject", h.Reject)

	return r
}

// GroupRoutes mounts the group-scoped contribution list on the group router
func (h *Handler) GroupRoutes(r chi.Router) {
	r.Get("/{id}/contributions", h.ListForGroup)
}

func statusFilter(r *http.Request) (*Status, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	s, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Submit handles POST /contributions
// @Summary      Submit a contribution
// @Description  Report a payment toward a group or one of its projects. Starts pending.
// @Tags         contributions
// @Accept       json
// @Produce      json
// @Param        request body SubmitRequest true "Contribution"
// @Success      201 {object} response.APIResponse{data=ContributionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /contributions [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	c, err := h.service.Submit(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to submit contribution")
		return
	}

	response.JSON(w, http.StatusCreated, c.ToResponse())
}

// GetByID handles GET /contributions/{id}
// @Summary      Get a contribution
// @Tags         contributions
// @Produce      json
// @Param        id path string true "Contribution ID"
// @Success      200 {object} response.APIResponse{data=ContributionResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /contributions/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err, "Failed to get contribution")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// Confirm handles PATCH /contributions/{id}/confirm
// @Summary      Confirm a contribution
// @Description  Group admin accepts a pending contribution; the project's collected amount increases
// @Tags         contributions
// @Produce      json
// @Param        id path string true "Contribution ID"
// @Success      200 {object} response.APIResponse{data=ContributionResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /contributions/{id}/confirm [patch]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	c, err := h.service.Confirm(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err, "Failed to confirm contribution")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// Reject handles PATCH /contributions/{id}/reject
// @Summary      Reject a contribution
// @Tags         contributions
// @Produce      json
// @Param        id path string true "Contribution ID"
// @Success      200 {object} response.APIResponse{data=ContributionResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /contributions/{id}/reject [patch]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	c, err := h.service.Reject(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err, "Failed to reject contribution")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// ListMine handles GET /contributions/mine
// @Summary      List my contributions
// @Tags         contributions
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]ContributionResponse}
// @Router       /contributions/mine [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	contributions, err := h.service.ListMine(r.Context(), actorID)
	if err != nil {
		response.FromError(w, err, "Failed to list contributions")
		return
	}

	response.JSONWithMeta(w, http.StatusOK, toResponses(contributions), &response.Meta{Total: len(contributions)})
}

// ListForAdmin handles GET /contributions/admin
// @Summary      List contributions across administered groups
// @Tags         contributions
// @Produce      json
// @Param        status query string false "pending | confirmed | rejected"
// @Success      200 {object} response.APIResponse{data=[]ContributionResponse}
// @Router       /contributions/admin [get]
func (h *Handler) ListForAdmin(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	status, err := statusFilter(r)
	if err != nil {
		response.FromError(w, err, "Invalid status filter")
		return
	}

	contributions, err := h.service.ListForAdmin(r.Context(), actorID, status)
	if err != nil {
		response.FromError(w, err, "Failed to list contributions")
		return
	}

	response.JSONWithMeta(w, http.StatusOK, toResponses(contributions), &response.Meta{Total: len(contributions)})
}

// ListForGroup handles GET /groups/{id}/contributions
// @Summary      List group contributions
// @Tags         contributions
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        status query string false "pending | confirmed | rejected"
// @Success      200 {object} response.APIResponse{data=[]ContributionResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/contributions [get]
func (h *Handler) ListForGroup(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	status, err := statusFilter(r)
	if err != nil {
		response.FromError(w, err, "Invalid status filter")
		return
	}

	contributions, err := h.service.ListForGroup(r.Context(), chi.URLParam(r, "id"), actorID, status)
	if err != nil {
		response.FromError(w, err, "Failed to list contributions")
		return
	}

	response.JSONWithMeta(w, http.StatusOK, toResponses(contributions), &response.Meta{Total: len(contributions)})
}
