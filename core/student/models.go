package student

import (
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Level is the education level a class belongs to.
type Level string

const (
	LevelNursery        Level = "Maternelles"
	LevelPrimary        Level = "Primaires"
	LevelLowerSecondary Level = "Premier cycle"
	LevelUpperSecondary Level = "Second cycle"
)

var Levels = []Level{LevelNursery, LevelPrimary, LevelLowerSecondary, LevelUpperSecondary}

func (l Level) IsValid() bool {
	switch l {
	case LevelNursery, LevelPrimary, LevelLowerSecondary, LevelUpperSecondary:
		return true
	}
	return false
}

// Student is an enrolled student; EnrollmentNumber is unique.
type Student struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	EnrollmentNumber string    `json:"numero_matricule" bson:"numero_matricule"`
	LastName         string    `json:"nom" bson:"nom"`
	FirstName        string    `json:"prenom" bson:"prenom"`
	Level            Level     `json:"niveau" bson:"niveau"`
	Class            string    `json:"classe" bson:"classe"`
	ParentPhone      string    `json:"telephone_parent" bson:"telephone_parent"`
	Vaccinated       bool      `json:"est_vaccine" bson:"est_vaccine"`
	YearLabel        string    `json:"annee_scolaire" bson:"annee_scolaire"`
	BirthDate        time.Time `json:"date_naissance,omitempty" bson:"date_naissance,omitempty"`
	BirthPlace       string    `json:"lieu_naissance,omitempty" bson:"lieu_naissance,omitempty"`
	FatherName       string    `json:"nom_pere,omitempty" bson:"nom_pere,omitempty"`
	MotherName       string    `json:"nom_mere,omitempty" bson:"nom_mere,omitempty"`
	CivilActNumber   string    `json:"acte_numero,omitempty" bson:"acte_numero,omitempty"`
	CivilActDate     time.Time `json:"acte_date,omitempty" bson:"acte_date,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Normalize cleans a record the way the registry expects it: last name
// uppercased, first name capitalized, and the level re-derived from the
// class when it is missing or holds a class label instead of a level.
func (s *Student) Normalize() {
	s.EnrollmentNumber = core.CleanString(s.EnrollmentNumber)
	s.LastName = strings.ToUpper(core.CleanString(s.LastName))
	s.FirstName = core.CapitalizeString(s.FirstName)
	s.Class = core.CleanString(s.Class)

	if lvl, ok := LevelForClass(string(s.Level)); ok {
		// level was recorded as a class label (e.g. "CM2")
		s.Level = lvl
	}
	if !s.Level.IsValid() {
		if lvl, ok := LevelForClass(s.Class); ok {
			s.Level = lvl
		}
	}
}

// NewStudent is the payload for enrolling a Student.
type NewStudent struct {
	EnrollmentNumber string    `json:"numero_matricule" validate:"required"`
	LastName         string    `json:"nom" validate:"required"`
	FirstName        string    `json:"prenom" validate:"required"`
	Level            Level     `json:"niveau"`
	Class            string    `json:"classe" validate:"required"`
	ParentPhone      string    `json:"telephone_parent" validate:"required,phone10"`
	Vaccinated       bool      `json:"est_vaccine"`
	BirthDate        time.Time `json:"date_naissance,omitempty"`
	BirthPlace       string    `json:"lieu_naissance,omitempty"`
	FatherName       string    `json:"nom_pere,omitempty"`
	MotherName       string    `json:"nom_mere,omitempty"`
	CivilActNumber   string    `json:"acte_numero,omitempty"`
	CivilActDate     time.Time `json:"acte_date,omitempty"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, translator ut.Translator) error {
	ns.EnrollmentNumber = core.CleanString(ns.EnrollmentNumber)
	ns.Class = core.CleanString(ns.Class)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	if _, ok := LevelForClass(ns.Class); !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "classe", Error: errUnknownClass})
	}
	return nil
}

// UpdateStudent is the payload for updating a Student; zero values are left
// untouched except Vaccinated which is always applied.
type UpdateStudent struct {
	LastName       string    `json:"nom"`
	FirstName      string    `json:"prenom"`
	Level          Level     `json:"niveau"`
	Class          string    `json:"classe"`
	ParentPhone    string    `json:"telephone_parent" validate:"omitempty,phone10"`
	Vaccinated     *bool     `json:"est_vaccine"`
	BirthDate      time.Time `json:"date_naissance,omitempty"`
	BirthPlace     string    `json:"lieu_naissance,omitempty"`
	FatherName     string    `json:"nom_pere,omitempty"`
	MotherName     string    `json:"nom_mere,omitempty"`
	CivilActNumber string    `json:"acte_numero,omitempty"`
	CivilActDate   time.Time `json:"acte_date,omitempty"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, translator ut.Translator) error {
	us.Class = core.CleanString(us.Class)
	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.Class != "" {
		if _, ok := LevelForClass(us.Class); !ok {
			return core.NewValidationError(nil, core.FieldError{Field: "classe", Error: errUnknownClass})
		}
	}
	return nil
}

// QueryFilter filters students; zero fields are ignored.
type QueryFilter struct {
	YearLabel   string
	Class       string
	ParentPhone string // case-insensitive substring match
}
