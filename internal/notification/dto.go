package notification

// NotificationResponse represents the response for a notification
type NotificationResponse struct {
	ID             string  `json:"id"`
	Type           Type    `json:"type"`
	Title          string  `json:"title"`
	Message        string  `json:"message"`
	ContributionID *string `json:"contribution_id,omitempty"`
	Read           bool    `json:"read"`
	CreatedAt      string  `json:"created_at"`
}

// OpenedResponse is a notification with its related contribution
type OpenedResponse struct {
	*NotificationResponse
	Contribution *RelatedContribution `json:"contribution,omitempty"`
}

// ToResponse converts a Notification to a NotificationResponse
func (n *Notification) ToResponse() *NotificationResponse {
	return &NotificationResponse{
		ID:             n.ID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		ContributionID: n.ContributionID,
		Read:           n.Read,
		CreatedAt:      n.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
