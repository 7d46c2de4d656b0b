package notification

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FaisalEngish/Kontrib/pkg/middleware"
	"github.com/FaisalEngish/Kontrib/pkg/response"
)

// Handler handles HTTP requests for notification operations
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for notification endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireUser)

	r.Get("/", h.List)
	r.Get("/unread-count", h.GetUnreadCount)
	r.Post("/read-all", h.MarkAllAsRead)
	r.Get("/{id}", h.Open)
	r.Patch("/{id}/read", h.MarkAsRead)

	return r
}

// List handles GET /notifications
// @Summary      List notifications
// @Description  Newest first. unread_only returns every unread notification; otherwise limit applies.
// @Tags         notifications
// @Produce      json
// @Param        unread_only query bool false "Only unread"
// @Param        limit query int false "Maximum items (default 20, max 100)"
// @Success      200 {object} response.APIResponse{data=[]NotificationResponse}
// @Router       /notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var (
		notifications []*Notification
		err           error
	)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if r.URL.Query().Get("unread_only") == "true" {
		notifications, err = h.service.ListUnread(r.Context(), userID)
	} else {
		notifications, err = h.service.ListRecent(r.Context(), userID, limit)
	}
	if err != nil {
		response.FromError(w, err, "Failed to list notifications")
		return
	}

	notificationResponses := make([]*NotificationResponse, len(notifications))
	for i, n := range notifications {
		notificationResponses[i] = n.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, notificationResponses, &response.Meta{Total: len(notificationResponses), Limit: limit})
}

// GetUnreadCount handles GET /notifications/unread-count
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get unread count")
		return
	}

	response.JSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

// Open handles GET /notifications/{id}
// @Summary      Open a notification
// @Description  Marks the notification read and returns it with the current state of its contribution
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} response.APIResponse{data=OpenedResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /notifications/{id} [get]
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	opened, err := h.service.Open(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		response.FromError(w, err, "Failed to open notification")
		return
	}

	response.JSON(w, http.StatusOK, &OpenedResponse{
		NotificationResponse: opened.Notification.ToResponse(),
		Contribution:         opened.Contribution,
	})
}

// MarkAsRead handles PATCH /notifications/{id}/read
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} response.APIResponse{data=NotificationResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /notifications/{id}/read [patch]
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	n, err := h.service.MarkRead(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		response.FromError(w, err, "Failed to mark notification as read")
		return
	}

	response.JSON(w, http.StatusOK, n.ToResponse())
}

// MarkAllAsRead handles POST /notifications/read-all
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /notifications/read-all [post]
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	updated, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to mark all notifications as read")
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
