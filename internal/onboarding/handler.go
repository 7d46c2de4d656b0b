package onboarding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FaisalEngish/Kontrib/pkg/response"
)

// Handler handles HTTP requests for the join flow. The session ID is the
// candidate's handle; no bearer token is needed until verification.
type Handler struct {
	flow *Flow
}

// NewHandler creates a new onboarding handler
func NewHandler(flow *Flow) *Handler {
	return &Handler{flow: flow}
}

// Routes returns the router for onboarding endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/{token}", h.Start)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/join", h.Join)
		r.Post("/otp", h.SendOTP)
		r.Post("/verify", h.VerifyOTP)
		r.Post("/back", h.Back)
		r.Post("/complete", h.Complete)
	})

	return r
}

// AuthRoutes returns the router for phone sign-in of registered users
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/otp", h.SendSignInCode)
	r.Post("/verify", h.SignIn)

	return r
}

// SendSignInCode handles POST /auth/otp
// @Summary      Request a sign-in code
// @Description  Sends a code to a registered phone number. The response is the same for unknown numbers.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignInRequest true "Phone number"
// @Success      202 {object} response.APIResponse
// @Failure      429 {object} response.APIResponse
// @Router       /auth/otp [post]
func (h *Handler) SendSignInCode(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.flow.SendSignInCode(r.Context(), req.PhoneNumber); err != nil {
		response.FromError(w, err, "Failed to send sign-in code")
		return
	}
	response.JSON(w, http.StatusAccepted, map[string]string{"message": "If the number is registered, a code has been sent"})
}

// SignIn handles POST /auth/verify
// @Summary      Sign in with a code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignInRequest true "Phone number and code"
// @Success      200 {object} response.APIResponse{data=TokenResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      410 {object} response.APIResponse
// @Router       /auth/verify [post]
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	s, err := h.flow.SignIn(r.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		response.FromError(w, err, "Failed to sign in")
		return
	}
	response.JSON(w, http.StatusOK, newTokenResponse(s.User, s.Token, s.ExpiresAt))
}

// Start handles POST /onboarding/{token}
// @Summary      Open a registration link
// @Description  Starts an onboarding session and returns the group landing summary
// @Tags         onboarding
// @Produce      json
// @Param        token path string true "Registration token"
// @Success      201 {object} response.APIResponse{data=StartResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /onboarding/{token} [post]
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	sess, landing, err := h.flow.Start(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.FromError(w, err, "Failed to open registration link")
		return
	}

	response.JSON(w, http.StatusCreated, &StartResponse{
		Session: sess.ToResponse(),
		Landing: landing.ToResponse(),
	})
}

// Get handles GET /onboarding/sessions/{id}
// @Summary      Get an onboarding session
// @Description  Includes the group detail once the phone number is verified
// @Tags         onboarding
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} response.APIResponse{data=SessionDetailResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /onboarding/sessions/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := h.flow.Session(id)
	if err != nil {
		response.FromError(w, err, "Failed to get session")
		return
	}

	resp := &SessionDetailResponse{Session: sess.ToResponse()}
	detail, err := h.flow.Detail(r.Context(), id)
	switch {
	case err == nil:
		resp.Detail = detail.ToResponse()
	case errors.Is(err, ErrWrongStage):
	default:
		response.FromError(w, err, "Failed to load group detail")
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Join handles POST /onboarding/sessions/{id}/join
// @Summary      Continue to phone entry
// @Tags         onboarding
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /onboarding/sessions/{id}/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	sess, err := h.flow.Join(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err, "Failed to continue")
		return
	}
	response.JSON(w, http.StatusOK, sess.ToResponse())
}

// SendOTP handles POST /onboarding/sessions/{id}/otp
// @Summary      Send or resend a verification code
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body SendOTPRequest true "Phone number"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      429 {object} response.APIResponse
// @Failure      503 {object} response.APIResponse
// @Router       /onboarding/sessions/{id}/otp [post]
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	sess, err := h.flow.SendOTP(r.Context(), chi.URLParam(r, "id"), req.PhoneNumber)
	if err != nil {
		response.FromError(w, err, "Failed to send verification code")
		return
	}
	response.JSON(w, http.StatusOK, sess.ToResponse())
}

// VerifyOTP handles POST /onboarding/sessions/{id}/verify
// @Summary      Verify the code
// @Description  On success returns an access token for the (possibly new) member
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body VerifyOTPRequest true "Code"
// @Success      200 {object} response.APIResponse{data=VerifyResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      410 {object} response.APIResponse
// @Router       /onboarding/sessions/{id}/verify [post]
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	v, err := h.flow.VerifyOTP(r.Context(), chi.URLParam(r, "id"), req.Code)
	if err != nil {
		response.FromError(w, err, "Failed to verify code")
		return
	}

	response.JSON(w, http.StatusOK, &VerifyResponse{
		Session:       v.Session.ToResponse(),
		TokenResponse: newTokenResponse(v.User, v.Token, v.ExpiresAt),
	})
}

// Back handles POST /onboarding/sessions/{id}/back
// @Summary      Return to the previous step
// @Tags         onboarding
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /onboarding/sessions/{id}/back [post]
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	sess, err := h.flow.Back(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err, "Failed to go back")
		return
	}
	response.JSON(w, http.StatusOK, sess.ToResponse())
}

// Complete handles POST /onboarding/sessions/{id}/complete
// @Summary      Join the group
// @Tags         onboarding
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} response.APIResponse{data=SessionResponse}
// @Failure      409 {object} response.APIResponse
// @Router       /onboarding/sessions/{id}/complete [post]
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	sess, err := h.flow.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err, "Failed to join group")
		return
	}
	response.JSON(w, http.StatusOK, sess.ToResponse())
}
