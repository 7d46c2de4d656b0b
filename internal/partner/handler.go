package partner

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FaisalEngish/Kontrib/pkg/middleware"
	"github.com/FaisalEngish/Kontrib/pkg/response"
)

// Handler handles HTTP requests for accountability partners
type Handler struct {
	service *Service
}

// NewHandler creates a new partner handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GroupRoutes mounts the partner endpoints on the group router
func (h *Handler) GroupRoutes(r chi.Router) {
	r.Get("/{id}/accountability-partners", h.List)
	r.Post("/{id}/accountability-partners", h.Add)
	r.Get("/{id}/accountability-partners/eligible", h.ListEligible)
	r.Delete("/{id}/accountability-partners/{userId}", h.Remove)
}

// List handles GET /groups/{id}/accountability-partners
// @Summary      List accountability partners
// @Tags         partners
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]PartnerResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/accountability-partners [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	partners, err := h.service.ListPartners(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err, "Failed to list accountability partners")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(partners))
}

// Add handles POST /groups/{id}/accountability-partners
// @Summary      Assign an accountability partner
// @Description  Group admin promotes a member; at most 2 partners per group
// @Tags         partners
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body AddPartnerRequest true "Member to promote"
// @Success      201 {object} response.APIResponse{data=[]PartnerResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/{id}/accountability-partners [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	var req AddPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	partners, err := h.service.AddPartner(r.Context(), chi.URLParam(r, "id"), req.UserID, actorID)
	if err != nil {
		response.FromError(w, err, "Failed to add accountability partner")
		return
	}

	response.JSON(w, http.StatusCreated, toResponses(partners))
}

// ListEligible handles GET /groups/{id}/accountability-partners/eligible
// @Summary      List members eligible to become partners
// @Tags         partners
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]EligibleMemberResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/accountability-partners/eligible [get]
func (h *Handler) ListEligible(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	members, err := h.service.ListEligibleMembers(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err, "Failed to list eligible members")
		return
	}

	response.JSON(w, http.StatusOK, toEligibleResponses(members))
}

// Remove handles DELETE /groups/{id}/accountability-partners/{userId}
// @Summary      Remove an accountability partner
// @Tags         partners
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        userId path string true "Partner user ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/accountability-partners/{userId} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserID(r.Context())

	if err := h.service.RemovePartner(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"), actorID); err != nil {
		response.FromError(w, err, "Failed to remove accountability partner")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Accountability partner removed"})
}
