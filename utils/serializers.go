package utils

import (
	"time"

	"gymdesk_go/models"
)

// Compact representations used across APIs
type MemberShort struct {
	ID               uint   `json:"id"`
	MembershipNumber string `json:"membership_number"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
}

type UserDTO struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// SerializeUser maps a models.User to its API shape. The hashed password
// never leaves the server even with the struct tag in place.
func SerializeUser(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Role:      u.Role,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ToMemberShort maps a member to the compact DTO embedded in payment and
// attendance responses. Caller does not need any preloads.
func ToMemberShort(m *models.Member) MemberShort {
	return MemberShort{
		ID:               m.ID,
		MembershipNumber: m.MembershipNumber,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
	}
}
