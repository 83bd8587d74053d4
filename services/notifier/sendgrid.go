package notifsvc

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/transition"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// EmailNotifier mails emitted events to the school administrator.
type EmailNotifier struct {
	key        string
	from       *sgmail.Email
	admin      *sgmail.Email
	subjPrefix string
	logger     core.Logger
}

var _ core.Notifier = (*EmailNotifier)(nil)

func NewEmailNotifier(conf *core.Config, logger core.Logger) *EmailNotifier {
	return &EmailNotifier{
		key:        conf.SendgridAPIKey,
		from:       sgmail.NewEmail(conf.AppName, conf.DefaultFromEmail.Address),
		admin:      sgmail.NewEmail(conf.AdminEmail.Name, conf.AdminEmail.Address),
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (n *EmailNotifier) Emit(event string, payload interface{}) {
	subject, text := n.render(event, payload)
	go n.send(subject, text)
}

func (n *EmailNotifier) render(event string, payload interface{}) (subject, text string) {
	switch event {
	case transition.EventYearChanged:
		if evt, ok := payload.(transition.Event); ok {
			subject = "Transition vers l'année scolaire " + evt.NewYear.Label
			text = fmt.Sprintf(
				"La transition vers l'année scolaire %s est terminée.\r\n\r\n"+
					"Étudiants traités : %d\r\nAdmis : %d\r\nRedoublants : %d\r\nSortants : %d\r\n",
				evt.NewYear.Label,
				evt.Stats.TotalStudents, evt.Stats.Admitted, evt.Stats.Repeating, evt.Stats.Exiting,
			)
			return subject, text
		}
	}
	return event, fmt.Sprintf("%+v", payload)
}

func (n *EmailNotifier) send(subject, text string) {
	p := sgmail.NewPersonalization()
	p.Subject = n.subjPrefix + subject
	p.AddTos(n.admin)

	m := sgmail.NewV3Mail()
	m.SetFrom(n.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", text))

	req := sendgrid.GetRequest(n.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		n.logger.Error("sending event notification", err)
		return
	}
	if res.StatusCode >= http.StatusBadRequest {
		n.logger.Error(fmt.Sprintf("sending event notification: status %d", res.StatusCode))
	}
}
