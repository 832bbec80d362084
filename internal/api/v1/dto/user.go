package dto

import "time"

// CreateUserRequestDTO is the body of POST /v1/users, called once after
// signup to provision the profile row.
type CreateUserRequestDTO struct {
	Name      string `json:"name" validate:"required,max=200"`
	Email     string `json:"email" validate:"required,email"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

// UserResponseDTO is the profile shape returned by the users endpoints,
// including the rollover-corrected usage snapshot.
type UserResponseDTO struct {
	UserID            string    `json:"userId"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	AvatarURL         string    `json:"avatarUrl,omitempty"`
	Plan              string    `json:"plan"`
	UsageCount        int       `json:"usageCount"`
	UsageLimitMonthly int       `json:"usageLimitMonthly"`
	UsageResetAt      time.Time `json:"usageResetAt"`
	CreatedAt         time.Time `json:"createdAt"`
}
