package schoolyear

import (
	"strconv"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// TransitionStats are the aggregate results of a year transition, persisted
// on the outgoing SchoolYear record for information.
type TransitionStats struct {
	TotalStudents int `json:"total_etudiants" bson:"total_etudiants"`
	Admitted      int `json:"admis" bson:"admis"`
	Repeating     int `json:"redoublants" bson:"redoublants"`
	Exiting       int `json:"sortants" bson:"sortants"`
}

// SchoolYear is one school year; at most one record is active at any time.
type SchoolYear struct {
	ID              string           `json:"id" bson:"_id,omitempty"`
	Label           string           `json:"annee_label" bson:"annee_label"`
	IsActive        bool             `json:"est_active" bson:"est_active"`
	StartDate       time.Time        `json:"date_debut" bson:"date_debut"`
	EndDate         time.Time        `json:"date_fin" bson:"date_fin"`
	TransitionStats *TransitionStats `json:"statistiques_transition,omitempty" bson:"statistiques_transition,omitempty"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt       time.Time        `json:"updated_at" bson:"updated_at"` // UTC
}

// StartYearNum parses the numeric starting year out of the label,
// e.g. "2024-2025" -> 2024. ok is false for non-numeric prefixes.
func (y SchoolYear) StartYearNum() (int, bool) {
	return StartYearNum(y.Label)
}

// StartYearNum parses the numeric starting year out of a school year label.
func StartYearNum(label string) (int, bool) {
	n, err := strconv.Atoi(strings.SplitN(label, "-", 2)[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NewSchoolYear is the payload for creating a SchoolYear.
type NewSchoolYear struct {
	Label     string    `json:"annee_label" validate:"required,year_label"`
	StartDate time.Time `json:"date_debut" validate:"required"`
	EndDate   time.Time `json:"date_fin" validate:"required,gtfield=StartDate"`
	IsActive  bool      `json:"est_active"`
}

func (ny *NewSchoolYear) Validate(validate *validator.Validate, translator ut.Translator) error {
	ny.Label = strings.TrimSpace(ny.Label)
	return validate.Struct(ny)
}
