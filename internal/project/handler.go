package project

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FaisalEngish/Kontrib/pkg/middleware"
	"github.com/FaisalEngish/Kontrib/pkg/response"
)

// Handler handles HTTP requests for project operations
type Handler struct {
	service *Service
}

// NewHandler creates a new project handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for /projects
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireUser)

	r.Get("/{id}", h.GetByID)

	return r
}

// GroupRoutes mounts the group-scoped project endpoints on the group router
func (h *Handler) GroupRoutes(r chi.Router) {
	r.Post("/{id}/projects", h.Create)
	r.Get("/{id}/projects", h.ListByGroup)
}

// Create handles POST /groups/{id}/projects
// @Summary      Create a project
// @Description  Add a savings target to a group (group admin only)
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body CreateProjectRequest true "Project"
// @Success      201 {object} response.APIResponse{data=ProjectResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/projects [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Create(r.Context(), chi.URLParam(r, "id"), actorID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create project")
		return
	}

	response.JSON(w, http.StatusCreated, p.ToResponse())
}

// ListByGroup handles GET /groups/{id}/projects
// @Summary      List group projects
// @Tags         projects
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]ProjectResponse}
// @Router       /groups/{id}/projects [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	projects, err := h.service.ListForMember(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err, "Failed to list projects")
		return
	}

	projectResponses := make([]*ProjectResponse, len(projects))
	for i, p := range projects {
		projectResponses[i] = p.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, projectResponses, &response.Meta{Total: len(projectResponses)})
}

// GetByID handles GET /projects/{id}
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} response.APIResponse{data=ProjectResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /projects/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	p, err := h.service.GetForMember(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err, "Failed to get project")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}
