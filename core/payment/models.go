package payment

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Type is what a payment is for.
type Type string

const (
	TypeRegistration Type = "Droit"
	TypeTuition      Type = "Scolarité"
	TypeCanteen      Type = "Cantine"
	TypeTransport    Type = "Transport"
	TypeSupplies     Type = "Fournitures"
	TypeActivities   Type = "Activités"
)

var Types = []Type{TypeRegistration, TypeTuition, TypeCanteen, TypeTransport, TypeSupplies, TypeActivities}

func (t Type) IsValid() bool {
	for _, typ := range Types {
		if t == typ {
			return true
		}
	}
	return false
}

// Month is the period a payment covers; MonthRegistration covers the
// one-off registration fee.
type Month string

const (
	MonthRegistration Month = "Droit"
	MonthJanuary      Month = "Janvier"
	MonthFebruary     Month = "Février"
	MonthMarch        Month = "Mars"
	MonthApril        Month = "Avril"
	MonthMay          Month = "Mai"
	MonthJune         Month = "Juin"
	MonthJuly         Month = "Juillet"
	MonthAugust       Month = "Août"
	MonthSeptember    Month = "Septembre"
	MonthOctober      Month = "Octobre"
	MonthNovember     Month = "Novembre"
	MonthDecember     Month = "Décembre"
)

var Months = []Month{
	MonthRegistration,
	MonthJanuary, MonthFebruary, MonthMarch, MonthApril, MonthMay, MonthJune,
	MonthJuly, MonthAugust, MonthSeptember, MonthOctober, MonthNovember, MonthDecember,
}

func (m Month) IsValid() bool {
	for _, month := range Months {
		if m == month {
			return true
		}
	}
	return false
}

// Method is how a payment was made.
type Method string

const (
	MethodCash     Method = "Espèces"
	MethodCheck    Method = "Chèque"
	MethodTransfer Method = "Virement"
	MethodMobile   Method = "Mobile Money"
)

// Status is the settlement state of a payment.
type Status string

const (
	StatusPaid    Status = "Payé"
	StatusPending Status = "En attente"
)

// Payment is one payment entry; (EnrollmentNumber, Month, Year, Type) is
// unique.
type Payment struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	EnrollmentNumber string    `json:"numero_matricule" bson:"numero_matricule"`
	Type             Type      `json:"type_paiement" bson:"type_paiement"`
	Month            Month     `json:"mois" bson:"mois"`
	Year             int       `json:"annee" bson:"annee"`
	Amount           float64   `json:"montant" bson:"montant"`
	PaidAt           time.Time `json:"date_paiement" bson:"date_paiement"`
	Method           Method    `json:"methode" bson:"methode"`
	Status           Status    `json:"statut" bson:"statut"`
	Reference        string    `json:"reference" bson:"reference"`
	YearLabel        string    `json:"annee_scolaire" bson:"annee_scolaire"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// NewPayment is the payload for recording a payment.
type NewPayment struct {
	EnrollmentNumber string    `json:"numero_matricule" validate:"required"`
	Type             Type      `json:"type_paiement" validate:"required"`
	Month            Month     `json:"mois" validate:"required"`
	Year             int       `json:"annee" validate:"required,min=2020,max=2100"`
	Amount           float64   `json:"montant" validate:"required,gt=0"`
	PaidAt           time.Time `json:"date_paiement"`
	Method           Method    `json:"methode"`
	Status           Status    `json:"statut"`
}

func (np *NewPayment) Validate(validate *validator.Validate, translator ut.Translator) error {
	np.EnrollmentNumber = core.CleanString(np.EnrollmentNumber)
	if err := validate.Struct(np); err != nil {
		return err
	}
	if !np.Type.IsValid() {
		return core.NewValidationError(nil, core.FieldError{Field: "type_paiement", Error: "invalid payment type"})
	}
	if !np.Month.IsValid() {
		return core.NewValidationError(nil, core.FieldError{Field: "mois", Error: "invalid month"})
	}
	return nil
}

// QueryFilter filters payments; zero fields are ignored.
type QueryFilter struct {
	EnrollmentNumber string
	YearLabel        string
	Month            Month
	Year             int
	Type             Type
}

// Stats aggregates payments for reporting.
type Stats struct {
	TotalAmount   float64          `json:"montant_total"`
	DocumentCount int              `json:"nombre_paiements"`
	AmountByType  map[Type]float64 `json:"montant_par_type"`
}
