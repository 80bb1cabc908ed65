package notify

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/wolfman30/restaurant-webhook/internal/i18n"
	"github.com/wolfman30/restaurant-webhook/internal/reservations"
	"github.com/wolfman30/restaurant-webhook/internal/restaurant"
)

// EmailKind selects a reservation email.
type EmailKind string

const (
	EmailConfirmation EmailKind = "confirmation"
	EmailModification EmailKind = "modification"
	EmailCancellation EmailKind = "cancellation"
)

// ErrNoRecipient is returned when the reservation has no email address.
var ErrNoRecipient = errors.New("notify: reservation has no email address")

var reservationHTML = template.Must(template.New("reservation").Parse(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #7c2d12;">{{.Heading}}</h2>
<p>{{.Intro}}</p>
<table style="border-collapse: collapse; margin: 20px 0;">
{{- range .Rows}}
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>{{.Label}}:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.Value}}</td></tr>
{{- end}}
</table>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">{{.Footer}}</p>
</div>`))

type emailRow struct {
	Label string
	Value string
}

type emailView struct {
	Heading string
	Intro   string
	Rows    []emailRow
	Footer  string
}

// ReservationEmail builds the guest email for a booking event in lang.
func ReservationEmail(kind EmailKind, r reservations.Record, info restaurant.Info, tr *i18n.Translator, lang i18n.Language) (EmailMessage, error) {
	switch kind {
	case EmailConfirmation, EmailModification, EmailCancellation:
	default:
		return EmailMessage{}, fmt.Errorf("notify: unknown email kind %q", kind)
	}
	if strings.TrimSpace(r.Email) == "" {
		return EmailMessage{}, ErrNoRecipient
	}
	if tr == nil {
		return EmailMessage{}, errors.New("notify: translator required")
	}

	venue := i18n.Args{"Restaurant": info.Name, "Address": info.Address, "Phone": info.Phone}
	prefix := "email." + string(kind)
	view := emailView{
		Heading: tr.T(lang, prefix+".subject", venue),
		Intro:   tr.T(lang, prefix+".intro", i18n.Args{"Name": r.Name}),
		Rows: []emailRow{
			{Label: tr.T(lang, "email.label.date", nil), Value: r.Date},
			{Label: tr.T(lang, "email.label.time", nil), Value: r.Time},
			{Label: tr.T(lang, "email.label.guests", nil), Value: strconv.Itoa(r.Guests)},
			{Label: tr.T(lang, "email.label.table", nil), Value: strconv.Itoa(r.Table)},
		},
		Footer: tr.T(lang, "email.footer", venue),
	}

	var text strings.Builder
	text.WriteString(view.Intro)
	text.WriteString("\n\n")
	for _, row := range view.Rows {
		fmt.Fprintf(&text, "%s: %s\n", row.Label, row.Value)
	}
	text.WriteString("\n")
	text.WriteString(view.Footer)

	var html bytes.Buffer
	if err := reservationHTML.Execute(&html, view); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render %s email: %w", kind, err)
	}

	return EmailMessage{
		To:      strings.TrimSpace(r.Email),
		ToName:  r.Name,
		Subject: view.Heading,
		Body:    text.String(),
		HTML:    html.String(),
		Kind:    kind,
		ReplyTo: strings.TrimSpace(info.Email),
	}, nil
}
