package templates

import (
	"strings"
	"time"
)

// Brand carries the company fields every template renders in its header and footer.
type Brand struct {
	AppName     string
	CompanyName string
	LogoURL     string
	SupportURL  string
}

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = strings.TrimSpace(ip) } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithRole(role string) Option    { return func(d *EmailData) { d.Role = role } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		utc := time.Now().Add(dur).UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// NewBaseEmailData fills the brand fields, then applies opts.
func NewBaseEmailData(b Brand, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		CompanyName:    b.CompanyName,
		AppName:        b.AppName,
		LogoURL:        b.LogoURL,
		SupportURL:     b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewOTPData builds the data for either OTP template.
func NewOTPData(b Brand, typ, name, email, code string, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, typ, name, email, opts...)
	d.Code = code
	return ToMap(d)
}

func NewWelcomeData(b Brand, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(b, Welcome, name, email, opts...))
}
