// Package notify renders the SMS text the admin copies into their phone
// after resolving a registration. Delivery is manual and off-system.
package notify

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/smc-reunion/iftar-registration/internal/model"
)

// ErrNotResolved is returned when a template is requested for a
// registration that has not been resolved yet.
var ErrNotResolved = errors.New("registration not resolved yet")

// Event logistics the approved message carries. These match the printed
// invitations, not anything stored in the events table.
const (
	eventDate  = "March 28, 2025"
	eventTime  = "4:00 PM"
	eventVenue = "Shahid Smrity College field"
)

var approvedTmpl = template.Must(template.New("approved").Parse(
	`Dear {{.Name}},
Your registration for the {{.Event}} has been approved. We look forward to seeing you at the event.

Date: {{.Date}}
Time: {{.Time}}
Venue: {{.Venue}}

Please show this SMS at the entrance.
Thank you!`))

var rejectedTmpl = template.Must(template.New("rejected").Parse(
	`Dear {{.Name}},
We regret to inform you that your registration for the {{.Event}} could not be approved at this time. Please contact our support team for more information.

Thank you for your understanding.`))

type templateData struct {
	Name  string
	Event string
	Date  string
	Time  string
	Venue string
}

// Render produces the notification text for a resolved registration.
// eventTitle falls back to a generic label when no active event is loaded.
func Render(reg model.Registration, eventTitle string) (string, error) {
	if eventTitle == "" {
		eventTitle = "Iftar Gathering"
	}
	data := templateData{
		Name:  reg.FullName,
		Event: eventTitle,
		Date:  eventDate,
		Time:  eventTime,
		Venue: eventVenue,
	}

	var tmpl *template.Template
	switch reg.Status {
	case model.StatusApproved:
		tmpl = approvedTmpl
	case model.StatusRejected:
		tmpl = rejectedTmpl
	default:
		return "", ErrNotResolved
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render sms template: %w", err)
	}
	return b.String(), nil
}
