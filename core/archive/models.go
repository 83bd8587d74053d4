package archive

import (
	"time"

	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
)

// Decision is the promotion outcome computed per student at year-end.
type Decision string

const (
	DecisionAdmitted Decision = "Admis"
	DecisionRepeat   Decision = "Redoublant"
	DecisionExiting  Decision = "Sortant"
)

func (d Decision) IsValid() bool {
	switch d {
	case DecisionAdmitted, DecisionRepeat, DecisionExiting:
		return true
	}
	return false
}

// ArchivedGrade is the denormalized copy of a grade embedded in a student
// snapshot.
type ArchivedGrade struct {
	Subject        string               `json:"matiere" bson:"matiere"`
	Value          float64              `json:"note" bson:"note"`
	Session        grade.Session        `json:"session" bson:"session"`
	EvaluationType grade.EvaluationType `json:"type_evaluation" bson:"type_evaluation"`
	Comment        string               `json:"commentaire,omitempty" bson:"commentaire,omitempty"`
	EvaluatedAt    time.Time            `json:"date_evaluation" bson:"date_evaluation"`
}

// StudentArchive is the write-once snapshot of a student at the end of a
// school year. Never mutated once created.
type StudentArchive struct {
	ID               string          `json:"id" bson:"_id,omitempty"`
	YearLabel        string          `json:"annee_scolaire" bson:"annee_scolaire"`
	EnrollmentNumber string          `json:"numero_matricule" bson:"numero_matricule"`
	LastName         string          `json:"nom" bson:"nom"`
	FirstName        string          `json:"prenom" bson:"prenom"`
	Level            student.Level   `json:"niveau" bson:"niveau"`
	Class            string          `json:"classe" bson:"classe"`
	Average          float64         `json:"moyenne_generale" bson:"moyenne_generale"`
	Decision         Decision        `json:"decision" bson:"decision"`
	NextClass        string          `json:"classe_suivante,omitempty" bson:"classe_suivante,omitempty"`
	Grades           []ArchivedGrade `json:"notes" bson:"notes"`
	ParentPhone      string          `json:"telephone_parent,omitempty" bson:"telephone_parent,omitempty"`
	BirthDate        time.Time       `json:"date_naissance,omitempty" bson:"date_naissance,omitempty"`
	BirthPlace       string          `json:"lieu_naissance,omitempty" bson:"lieu_naissance,omitempty"`
	FatherName       string          `json:"nom_pere,omitempty" bson:"nom_pere,omitempty"`
	MotherName       string          `json:"nom_mere,omitempty" bson:"nom_mere,omitempty"`
	CivilActNumber   string          `json:"acte_numero,omitempty" bson:"acte_numero,omitempty"`
	CivilActDate     time.Time       `json:"acte_date,omitempty" bson:"acte_date,omitempty"`
	Vaccinated       bool            `json:"est_vaccine" bson:"est_vaccine"`
	ArchivedAt       time.Time       `json:"date_archivage" bson:"date_archivage"` // UTC
}

func (a StudentArchive) FullName() string {
	return a.FirstName + " " + a.LastName
}

// PaymentArchive is the write-once snapshot of an outgoing year's payment
// batch.
type PaymentArchive struct {
	ID            string            `json:"id" bson:"_id,omitempty"`
	YearLabel     string            `json:"annee_scolaire" bson:"annee_scolaire"`
	YearNum       int               `json:"annee_numeric,omitempty" bson:"annee_numeric,omitempty"`
	ArchivedAt    time.Time         `json:"date_archivage" bson:"date_archivage"` // UTC
	TotalAmount   float64           `json:"total_paiements" bson:"total_paiements"`
	DocumentCount int               `json:"nombre_documents" bson:"nombre_documents"`
	Payments      []payment.Payment `json:"paiements" bson:"paiements"`
}

// Stats counts archived students per decision for one year.
//
// The embedded TransitionStats shape keeps the archive scan and the stats
// persisted on the outgoing year comparable.
type Stats = schoolyear.TransitionStats
