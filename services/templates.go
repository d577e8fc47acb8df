package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"restoran_server/structs"
	"restoran_server/structs/tables"
	"text/template"
	"time"
)

type noticeTemplate struct {
	subject string
	html    *htmltemplate.Template
	text    *template.Template
}

func newNotice(subject, html, text string) noticeTemplate {
	return noticeTemplate{
		subject: subject,
		html:    htmltemplate.Must(htmltemplate.New(subject).Funcs(noticeFuncs).Parse(layoutHead + html + layoutFoot)),
		text:    template.Must(template.New(subject).Funcs(noticeFuncs).Parse(text)),
	}
}

var noticeFuncs = map[string]any{
	"people": func(n int) string {
		if n == 1 {
			return "1 person"
		}
		return fmt.Sprintf("%d people", n)
	},
	"stamp": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
}

func (nt noticeTemplate) render(to, audience string, data any) (*Email, error) {
	var html, text bytes.Buffer
	if err := nt.html.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render %q: %w", nt.subject, err)
	}
	if err := nt.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render %q: %w", nt.subject, err)
	}
	return &Email{
		To:       []string{to},
		Audience: audience,
		Subject:  nt.subject,
		Html:     html.String(),
		Text:     text.String(),
	}, nil
}

type noticeData struct {
	Restaurant *structs.EmailConfig
	Booking    *tables.Booking
	Message    *tables.ContactMessage
	ResetLink  string
	ExpiresIn  time.Duration
}

const layoutHead = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<div style="background: #FEA116; color: white; padding: 20px; text-align: center;"><h1>{{.Restaurant.RestaurantName}}</h1></div>
<div style="padding: 20px; background: #f8f9fa;">
`

const layoutFoot = `</div>
<div style="background: #0F172B; color: white; padding: 15px; text-align: center;">
<p>{{.Restaurant.RestaurantName}} &middot; {{.Restaurant.RestaurantAddress}}</p>
<p style="font-size: 12px;">This is an automated message. Please do not reply to this email.</p>
</div></div>`

var (
	bookingCustomerNotice = newNotice("Booking Confirmation - Restoran", `<h3>Dear {{.Booking.GuestName}},</h3>
<p>Thank you for choosing {{.Restaurant.RestaurantName}}! We have received your table booking.</p>
<div style="background: white; padding: 15px; border-radius: 5px;">
<p><strong>Date:</strong> {{.Booking.BookingDate}}</p>
<p><strong>Time:</strong> {{.Booking.BookingTime}}</p>
<p><strong>Party Size:</strong> {{people .Booking.PartySize}}</p>
{{with .Booking.Table}}<p><strong>Table:</strong> Table {{.TableNumber}}</p>{{end}}
{{with .Booking.SpecialRequests}}<p><strong>Special Requests:</strong> {{.}}</p>{{end}}
</div>
<p>We look forward to serving you! If you need to make any changes, contact us at {{.Restaurant.RestaurantEmail}}.</p>
`, `Dear {{.Booking.GuestName}},

Thank you for choosing {{.Restaurant.RestaurantName}}! We have received your table booking.

Date: {{.Booking.BookingDate}}
Time: {{.Booking.BookingTime}}
Party size: {{people .Booking.PartySize}}
{{with .Booking.Table}}Table: {{.TableNumber}}
{{end}}{{with .Booking.SpecialRequests}}Special requests: {{.}}
{{end}}
{{.Restaurant.RestaurantAddress}}
`)

	bookingOperatorNotice = newNotice("New Booking Received - Restoran", `<h3>New booking #{{.Booking.Id}}</h3>
<div style="background: white; padding: 15px; border-radius: 5px;">
<p><strong>Name:</strong> {{.Booking.GuestName}}</p>
<p><strong>Email:</strong> {{.Booking.GuestEmail}}</p>
{{with .Booking.GuestPhone}}<p><strong>Phone:</strong> {{.}}</p>{{end}}
<p><strong>Date:</strong> {{.Booking.BookingDate}} {{.Booking.BookingTime}}</p>
<p><strong>Party Size:</strong> {{people .Booking.PartySize}}</p>
{{with .Booking.Table}}<p><strong>Table:</strong> Table {{.TableNumber}} ({{.Location}})</p>{{end}}
{{with .Booking.SpecialRequests}}<p><strong>Special Requests:</strong> {{.}}</p>{{end}}
<p><strong>Status:</strong> {{.Booking.Status}}</p>
</div>
<p><strong>Action Required:</strong> Please confirm this booking and prepare for the guest arrival.</p>
`, `New booking #{{.Booking.Id}}
Customer: {{.Booking.GuestName}} ({{.Booking.GuestEmail}})
Date/Time: {{.Booking.BookingDate}} {{.Booking.BookingTime}}
Party size: {{people .Booking.PartySize}}
{{with .Booking.Table}}Table: {{.TableNumber}}
{{end}}Status: {{.Booking.Status}}
`)

	contactCustomerNotice = newNotice("We received your message - Restoran", `<h3>Dear {{.Message.Name}},</h3>
<p>Thank you for reaching out. We will get back to you soon!</p>
{{with .Message.Subject}}<p><strong>Subject:</strong> {{.}}</p>{{end}}
<blockquote>{{.Message.Message}}</blockquote>
`, `Dear {{.Message.Name}},

Thank you for reaching out. We will get back to you soon!

{{.Message.Message}}
`)

	contactOperatorNotice = newNotice("New Contact Message - Restoran", `<h3>New message #{{.Message.Id}}</h3>
<div style="background: white; padding: 15px; border-radius: 5px;">
<p><strong>Name:</strong> {{.Message.Name}}</p>
<p><strong>Email:</strong> {{.Message.Email}}</p>
{{with .Message.Subject}}<p><strong>Subject:</strong> {{.}}</p>{{end}}
<div style="border-left: 4px solid #FEA116; padding: 10px;">{{.Message.Message}}</div>
<p><strong>Received:</strong> {{stamp .Message.CreatedAt}}</p>
</div>
<p><strong>Action Required:</strong> Please respond to this customer inquiry.</p>
`, `New message #{{.Message.Id}} from {{.Message.Name}} ({{.Message.Email}})
{{with .Message.Subject}}Subject: {{.}}
{{end}}
{{.Message.Message}}
`)

	passwordResetNotice = newNotice("Reset your password - Restoran", `<p>We received a request to reset your password.</p>
<p><a href="{{.ResetLink}}">Choose a new password</a></p>
<p>This link expires in {{.ExpiresIn}}. If you did not ask for a reset you can ignore this email.</p>
`, `We received a request to reset your password.

Open this link to choose a new one: {{.ResetLink}}

The link expires in {{.ExpiresIn}}. If you did not ask for a reset you can ignore this email.
`)
)

// RenderBookingNotices renders the guest confirmation and the operator alert.
func RenderBookingNotices(cfg *structs.EmailConfig, b *tables.Booking) ([]*Email, error) {
	data := noticeData{Restaurant: cfg, Booking: b}

	customer, err := bookingCustomerNotice.render(b.GuestEmail, AudienceCustomer, data)
	if err != nil {
		return nil, err
	}
	operator, err := bookingOperatorNotice.render(cfg.RestaurantEmail, AudienceOperator, data)
	if err != nil {
		return nil, err
	}
	return []*Email{customer, operator}, nil
}

// RenderContactNotices renders the sender acknowledgement and the operator alert.
func RenderContactNotices(cfg *structs.EmailConfig, m *tables.ContactMessage) ([]*Email, error) {
	data := noticeData{Restaurant: cfg, Message: m}

	customer, err := contactCustomerNotice.render(m.Email, AudienceCustomer, data)
	if err != nil {
		return nil, err
	}
	operator, err := contactOperatorNotice.render(cfg.RestaurantEmail, AudienceOperator, data)
	if err != nil {
		return nil, err
	}
	return []*Email{customer, operator}, nil
}

func RenderPasswordReset(cfg *structs.EmailConfig, to, link string, expiresIn time.Duration) (*Email, error) {
	return passwordResetNotice.render(to, AudienceCustomer, noticeData{Restaurant: cfg, ResetLink: link, ExpiresIn: expiresIn})
}
