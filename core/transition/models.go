package transition

import (
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core/schoolyear"
)

// EventYearChanged is emitted to the notifier once a transition completes.
const EventYearChanged = "annee_scolaire_changed"

// NewTransition is the payload for running a school year transition.
type NewTransition struct {
	NewYearLabel string    `json:"nouvelleAnneeLabel" validate:"required"`
	StartDate    time.Time `json:"dateDebut" validate:"required"`
	EndDate      time.Time `json:"dateFin" validate:"required"`
}

func (nt *NewTransition) Validate(validate *validator.Validate, translator ut.Translator) error {
	nt.NewYearLabel = strings.TrimSpace(nt.NewYearLabel)
	return validate.Struct(nt)
}

// Result is what a completed transition returns.
type Result struct {
	Stats   schoolyear.TransitionStats `json:"statistiques"`
	NewYear schoolyear.SchoolYear      `json:"nouvelle_annee"`
}

// Event is the payload broadcast with EventYearChanged.
type Event struct {
	NewYear schoolyear.SchoolYear      `json:"nouvelle_annee"`
	Stats   schoolyear.TransitionStats `json:"statistiques"`
}
