package user

// CreateUserRequest represents the request body for registering a user
type CreateUserRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	FullName    string `json:"full_name" validate:"required,max=100"`
	Role        Role   `json:"role" validate:"required,oneof=admin member"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID          string `json:"id"`
	Role        Role   `json:"role"`
	PhoneNumber string `json:"phone_number"`
	FullName    string `json:"full_name"`
	CreatedAt   string `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
		FullName:    u.FullName,
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
