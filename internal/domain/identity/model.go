package identity

import "time"

// User is an account. Accounts are scoped globally, not per tenant; a user
// may operate any tenant the frontend points them at.
type User struct {
	ID                int64      `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Gender            *string    `json:"gender,omitempty"`
	ProfilePhotoURL   *string    `json:"profile_photo_url,omitempty"`
	PhonePersonal     *string    `json:"phone_personal,omitempty"`
	PhoneProfessional *string    `json:"phone_professional,omitempty"`
	PhoneClinic       *string    `json:"phone_clinic,omitempty"`
	IsActive          bool       `json:"is_active"`
	IsVerified        bool       `json:"is_verified"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// Patch carries the mutable profile fields. A nil slot means "leave as is";
// a non-nil slot overwrites, so optional fields can be cleared with "".
type Patch struct {
	Email             *string `json:"email" validate:"omitempty,email"`
	FirstName         *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName          *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Gender            *string `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	PhonePersonal     *string `json:"phone_personal"`
	PhoneProfessional *string `json:"phone_professional"`
	PhoneClinic       *string `json:"phone_clinic"`
}

// ApplyPatch returns a copy of u with every non-nil patch slot applied.
func ApplyPatch(u User, p Patch) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Gender != nil {
		u.Gender = p.Gender
	}
	if p.PhonePersonal != nil {
		u.PhonePersonal = p.PhonePersonal
	}
	if p.PhoneProfessional != nil {
		u.PhoneProfessional = p.PhoneProfessional
	}
	if p.PhoneClinic != nil {
		u.PhoneClinic = p.PhoneClinic
	}
	return u
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
}

// LoginInput is the credential payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is the token response body set alongside the session cookies.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
