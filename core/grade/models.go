package grade

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Session is the evaluation session a grade belongs to.
type Session string

const (
	SessionFirst  Session = "1er"
	SessionSecond Session = "2ème"
	SessionThird  Session = "3ème"
)

var Sessions = []Session{SessionFirst, SessionSecond, SessionThird}

func (s Session) IsValid() bool {
	switch s {
	case SessionFirst, SessionSecond, SessionThird:
		return true
	}
	return false
}

// EvaluationType distinguishes continuous assessment from exams.
type EvaluationType string

const (
	EvalContinuous EvaluationType = "Controle Continu"
	EvalExam       EvaluationType = "Examen"
)

func (t EvaluationType) IsValid() bool {
	return t == EvalContinuous || t == EvalExam
}

// Grade is one grade entry; immutable once the year it belongs to has been
// archived.
type Grade struct {
	ID               string         `json:"id" bson:"_id,omitempty"`
	EnrollmentNumber string         `json:"numero_matricule" bson:"numero_matricule"`
	Subject          string         `json:"matiere" bson:"matiere"`
	Value            float64        `json:"note" bson:"note"`
	Session          Session        `json:"session" bson:"session"`
	EvaluationType   EvaluationType `json:"type_evaluation" bson:"type_evaluation"`
	YearLabel        string         `json:"annee_scolaire" bson:"annee_scolaire"`
	Comment          string         `json:"commentaire,omitempty" bson:"commentaire,omitempty"`
	EvaluatedAt      time.Time      `json:"date_evaluation" bson:"date_evaluation"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt        time.Time      `json:"updated_at" bson:"updated_at"` // UTC
}

// NewGrade is the payload for recording one grade.
type NewGrade struct {
	EnrollmentNumber string         `json:"numero_matricule" validate:"required"`
	Subject          string         `json:"matiere" validate:"required"`
	Value            float64        `json:"note" validate:"min=0,max=20"`
	Session          Session        `json:"session" validate:"required"`
	EvaluationType   EvaluationType `json:"type_evaluation" validate:"required"`
	Comment          string         `json:"commentaire"`
	EvaluatedAt      time.Time      `json:"date_evaluation"`
}

func (ng *NewGrade) Validate(validate *validator.Validate, translator ut.Translator) error {
	ng.EnrollmentNumber = core.CleanString(ng.EnrollmentNumber)
	ng.Subject = core.CleanString(ng.Subject)
	if err := validate.Struct(ng); err != nil {
		return err
	}
	if !ng.Session.IsValid() {
		return core.NewValidationError(nil, core.FieldError{Field: "session", Error: "invalid session"})
	}
	if !ng.EvaluationType.IsValid() {
		return core.NewValidationError(nil, core.FieldError{Field: "type_evaluation", Error: "invalid evaluation type"})
	}
	return nil
}

// QueryFilter filters grades; zero fields are ignored.
type QueryFilter struct {
	EnrollmentNumber string
	YearLabel        string
	Subject          string
	Session          Session
}
