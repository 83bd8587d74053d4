package pdfsvc

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/archive"
	"github.com/trezcool/shule/core/payment"
)

var (
	bulletinTmpl = template.Must(template.New("bulletin").Parse(bulletinHTML))
	receiptTmpl  = template.Must(template.New("receipt").Parse(receiptHTML))
)

// BulletinHTML builds the report card document for an archived student.
func BulletinHTML(arch archive.StudentArchive) (string, error) {
	var buf bytes.Buffer
	if err := bulletinTmpl.Execute(&buf, arch); err != nil {
		return "", errors.Wrap(err, "rendering bulletin template")
	}
	return buf.String(), nil
}

type receiptContext struct {
	Payment     payment.Payment
	StudentName string
}

// ReceiptHTML builds the payment receipt document.
func ReceiptHTML(pmt payment.Payment, studentName string) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, receiptContext{Payment: pmt, StudentName: studentName}); err != nil {
		return "", errors.Wrap(err, "rendering receipt template")
	}
	return buf.String(), nil
}

const bulletinHTML = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 40px; color: #222; }
h1 { font-size: 20px; text-align: center; text-transform: uppercase; }
.meta { margin: 20px 0; }
.meta td { padding: 2px 12px 2px 0; }
table.grades { width: 100%; border-collapse: collapse; margin-top: 16px; }
table.grades th, table.grades td { border: 1px solid #999; padding: 6px 8px; font-size: 13px; }
table.grades th { background: #eee; text-align: left; }
.decision { margin-top: 24px; font-size: 15px; font-weight: bold; }
</style>
</head>
<body>
<h1>Bulletin scolaire — {{.YearLabel}}</h1>
<table class="meta">
<tr><td>Nom :</td><td>{{.LastName}}</td></tr>
<tr><td>Prénom :</td><td>{{.FirstName}}</td></tr>
<tr><td>Matricule :</td><td>{{.EnrollmentNumber}}</td></tr>
<tr><td>Classe :</td><td>{{.Class}} ({{.Level}})</td></tr>
</table>
<table class="grades">
<tr><th>Matière</th><th>Session</th><th>Type</th><th>Note</th></tr>
{{range .Grades}}<tr><td>{{.Subject}}</td><td>{{.Session}}</td><td>{{.EvaluationType}}</td><td>{{printf "%.2f" .Value}}/20</td></tr>
{{end}}
</table>
<p class="decision">Moyenne générale : {{printf "%.2f" .Average}}/20 — Décision : {{.Decision}}{{with .NextClass}} (passe en {{.}}){{end}}</p>
</body>
</html>`

const receiptHTML = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 40px; color: #222; }
h1 { font-size: 18px; text-align: center; }
table { margin: 24px auto; border-collapse: collapse; }
td { padding: 4px 14px 4px 0; font-size: 14px; }
.amount { font-size: 18px; font-weight: bold; }
.ref { text-align: center; color: #666; font-size: 12px; margin-top: 24px; }
</style>
</head>
<body>
<h1>Reçu de paiement</h1>
<table>
<tr><td>Étudiant :</td><td>{{.StudentName}} ({{.Payment.EnrollmentNumber}})</td></tr>
<tr><td>Type :</td><td>{{.Payment.Type}}</td></tr>
<tr><td>Mois :</td><td>{{.Payment.Month}} {{.Payment.Year}}</td></tr>
<tr><td>Montant :</td><td class="amount">{{printf "%.0f" .Payment.Amount}} FCFA</td></tr>
<tr><td>Méthode :</td><td>{{.Payment.Method}}</td></tr>
<tr><td>Statut :</td><td>{{.Payment.Status}}</td></tr>
<tr><td>Date :</td><td>{{.Payment.PaidAt.Format "02/01/2006"}}</td></tr>
<tr><td>Année scolaire :</td><td>{{.Payment.YearLabel}}</td></tr>
</table>
<p class="ref">Référence : {{.Payment.Reference}}</p>
</body>
</html>`
