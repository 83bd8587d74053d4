package user

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Role determines what an operator account may do.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "user"
)

// User is an operator account.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	Role         Role      `json:"role" bson:"role"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	PasswordHash []byte    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// NewUser is the payload for creating an operator account.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role"`
}

func (nu *NewUser) Validate(validate *validator.Validate, translator ut.Translator) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	if err := validate.Struct(nu); err != nil {
		return err
	}
	if nu.Role == "" {
		nu.Role = RoleStaff
	}
	if nu.Role != RoleAdmin && nu.Role != RoleStaff {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role"})
	}
	return nil
}

// UpdateUser is the payload for updating an operator account; zero values
// are left untouched.
type UpdateUser struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Role     Role   `json:"role"`
	IsActive *bool  `json:"is_active"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate, translator ut.Translator) error {
	uu.Username = core.CleanString(uu.Username, true /* lower */)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	return validate.Struct(uu)
}
