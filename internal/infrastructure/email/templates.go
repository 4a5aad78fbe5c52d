package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var funcMap = template.FuncMap{
	"money": func(symbol string, amount decimal.Decimal) string {
		return symbol + amount.StringFixed(2)
	},
	"formatDate": func(date string) string {
		t, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return date
		}
		return t.Format("Monday, 2 January 2006")
	},
	"lines": func(s string) []string {
		return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	},
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html><body style="font-family:Helvetica,Arial,sans-serif;color:#2d2d2d;max-width:600px;margin:0 auto;padding:24px">
<h2 style="color:#4a6b5d">{{.SiteName}}</h2>
{{template "content" .}}
<hr style="border:none;border-top:1px solid #e5e5e5;margin:32px 0 16px">
<p style="font-size:12px;color:#888">{{.SiteName}} &middot; <a href="{{.SiteURL}}">{{.SiteURL}}</a></p>
</body></html>{{end}}`

const bookingConfirmationTmpl = `{{define "content"}}
<p>Dear {{.Booking.ClientName}},</p>
<p>Thank you for booking with us. Your payment has been received and your session request is confirmed.</p>
<table cellpadding="6" style="border-collapse:collapse">
<tr><td><strong>Package</strong></td><td>{{.Booking.PackageLabel}} ({{.Booking.Sessions}} session{{if gt .Booking.Sessions 1}}s{{end}})</td></tr>
<tr><td><strong>Preferred date</strong></td><td>{{formatDate .Booking.PreferredDate}}</td></tr>
<tr><td><strong>Preferred time</strong></td><td>{{.Booking.PreferredTime}}</td></tr>
<tr><td><strong>Amount</strong></td><td>{{money .Booking.Symbol .Booking.Amount}}</td></tr>
{{if .Booking.PromoCode}}<tr><td><strong>Promo code</strong></td><td>{{.Booking.PromoCode}}</td></tr>{{end}}
<tr><td><strong>Reference</strong></td><td>{{.Booking.Reference}}</td></tr>
</table>
<p>We will contact you shortly to confirm the exact time of your first session.</p>
{{end}}`

const bookingNoticeTmpl = `{{define "content"}}
<p>A new booking is {{.Booking.StatusLabel}}.</p>
<table cellpadding="6" style="border-collapse:collapse">
<tr><td><strong>Client</strong></td><td>{{.Booking.ClientName}}</td></tr>
<tr><td><strong>Email</strong></td><td>{{.Booking.ClientEmail}}</td></tr>
<tr><td><strong>Phone</strong></td><td>{{.Booking.Phone}}</td></tr>
<tr><td><strong>Package</strong></td><td>{{.Booking.PackageLabel}}</td></tr>
<tr><td><strong>Preferred</strong></td><td>{{formatDate .Booking.PreferredDate}} at {{.Booking.PreferredTime}}</td></tr>
<tr><td><strong>Charged</strong></td><td>{{money "GHS " .Booking.GHSAmount}} (shown as {{money .Booking.Symbol .Booking.Amount}})</td></tr>
{{if .Booking.PromoCode}}<tr><td><strong>Promo code</strong></td><td>{{.Booking.PromoCode}}</td></tr>{{end}}
<tr><td><strong>Reference</strong></td><td>{{.Booking.Reference}}</td></tr>
</table>
{{if .Booking.Notes}}<p><strong>Notes</strong></p><p>{{range lines .Booking.Notes}}{{.}}<br>{{end}}</p>{{end}}
{{end}}`

const contactTmpl = `{{define "content"}}
<p>New message from the contact form.</p>
<p><strong>From:</strong> {{.Contact.Name}} &lt;{{.Contact.Email}}&gt;</p>
{{if .Contact.Subject}}<p><strong>Subject:</strong> {{.Contact.Subject}}</p>{{end}}
<p>{{range lines .Contact.Message}}{{.}}<br>{{end}}</p>
{{end}}`

// templates holds one parsed tree per message kind, each sharing the layout
type templates struct {
	byName map[string]*template.Template
}

func parseTemplates() (*templates, error) {
	sources := map[string]string{
		"booking_confirmation": bookingConfirmationTmpl,
		"booking_notice":       bookingNoticeTmpl,
		"contact":              contactTmpl,
	}
	t := &templates{byName: make(map[string]*template.Template, len(sources))}
	for name, src := range sources {
		tmpl, err := template.New(name).Funcs(funcMap).Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if _, err := tmpl.Parse(src); err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		t.byName[name] = tmpl
	}
	return t, nil
}

func (t *templates) render(name string, data any) (string, error) {
	tmpl, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
