package user

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FaisalEngish/Kontrib/pkg/middleware"
	"github.com/FaisalEngish/Kontrib/pkg/response"
)

const bootstrapHeader = "X-Bootstrap-Key"

// Handler handles HTTP requests for user operations
type Handler struct {
	service *Service
	// bootstrapKey guards direct registration; empty disables it
	bootstrapKey string
}

// NewHandler creates a new user handler. Members normally register by
// verifying their phone during onboarding; POST /users is an operator tool
// for creating admins and needs the bootstrap key.
func NewHandler(service *Service, bootstrapKey string) *Handler {
	return &Handler{service: service, bootstrapKey: bootstrapKey}
}

// Routes returns the router for user endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.requireBootstrapKey).Post("/", h.Create)
	r.With(middleware.RequireUser).Get("/me", h.Me)
	r.With(middleware.RequireUser).Get("/{id}", h.GetByID)

	return r
}

func (h *Handler) requireBootstrapKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.bootstrapKey == "" {
			response.Forbidden(w, "Direct registration is disabled")
			return
		}
		key := r.Header.Get(bootstrapHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(h.bootstrapKey)) != 1 {
			response.Forbidden(w, "Invalid bootstrap key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Create handles POST /users
// @Summary      Register a user
// @Description  Register an admin or member by phone number. Requires the X-Bootstrap-Key header.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-Bootstrap-Key header string true "Operator bootstrap key"
// @Param        request body CreateUserRequest true "User registration request"
// @Success      201 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to create user")
		return
	}

	response.JSON(w, http.StatusCreated, user.ToResponse())
}

// Me handles GET /users/me
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	h.respondUser(w, r, userID)
}

// GetByID handles GET /users/{id}
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	h.respondUser(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) respondUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.FromError(w, err, "Failed to get user")
		return
	}

	response.JSON(w, http.StatusOK, user.ToResponse())
}
