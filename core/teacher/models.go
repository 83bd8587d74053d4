package teacher

import (
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
)

// Teacher is a member of the teaching staff; a teacher covers one subject
// across one or more classes.
type Teacher struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	LastName  string    `json:"nom" bson:"nom"`
	FirstName string    `json:"prenom" bson:"prenom"`
	Subject   string    `json:"matiere" bson:"matiere"`
	Phone     string    `json:"telephone" bson:"telephone"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	HiredAt   time.Time `json:"date_embauche,omitempty" bson:"date_embauche,omitempty"`
	Classes   []string  `json:"classes" bson:"classes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// Normalize cleans a record the way the directory expects it: last name
// uppercased, first name capitalized, class labels trimmed.
func (t *Teacher) Normalize() {
	t.LastName = strings.ToUpper(core.CleanString(t.LastName))
	t.FirstName = core.CapitalizeString(t.FirstName)
	t.Subject = core.CleanString(t.Subject)
	t.Email = core.CleanString(t.Email, true /* lower */)
	for i, c := range t.Classes {
		t.Classes[i] = core.CleanString(c)
	}
}

// NewTeacher is the payload for registering a Teacher.
type NewTeacher struct {
	LastName  string    `json:"nom" validate:"required"`
	FirstName string    `json:"prenom" validate:"required"`
	Subject   string    `json:"matiere" validate:"required"`
	Phone     string    `json:"telephone" validate:"required,phone10"`
	Email     string    `json:"email" validate:"omitempty,email"`
	HiredAt   time.Time `json:"date_embauche,omitempty"`
	Classes   []string  `json:"classes"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate, translator ut.Translator) error {
	nt.Subject = core.CleanString(nt.Subject)
	if err := validate.Struct(nt); err != nil {
		return err
	}
	return validateClasses(nt.Classes)
}

// UpdateTeacher is the payload for updating a Teacher; zero values are left
// untouched.
type UpdateTeacher struct {
	LastName  string    `json:"nom"`
	FirstName string    `json:"prenom"`
	Subject   string    `json:"matiere"`
	Phone     string    `json:"telephone" validate:"omitempty,phone10"`
	Email     string    `json:"email" validate:"omitempty,email"`
	HiredAt   time.Time `json:"date_embauche,omitempty"`
	Classes   []string  `json:"classes"`
}

func (up *UpdateTeacher) Validate(validate *validator.Validate, translator ut.Translator) error {
	up.Subject = core.CleanString(up.Subject)
	if err := validate.Struct(up); err != nil {
		return err
	}
	return validateClasses(up.Classes)
}

func validateClasses(classes []string) error {
	for _, c := range classes {
		if _, ok := student.LevelForClass(core.CleanString(c)); !ok {
			return core.NewValidationError(nil, core.FieldError{Field: "classes", Error: errUnknownClass})
		}
	}
	return nil
}

// QueryFilter filters teachers; zero fields are ignored.
type QueryFilter struct {
	Subject string
	Class   string // matches any of the teacher's classes
}
