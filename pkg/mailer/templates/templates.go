package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names; each has <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
const (
	SignupOTP = "signup_otp"
	ResetOTP  = "reset_otp"
	Welcome   = "welcome"
)

// Names lists every template the worker can render.
var Names = []string{SignupOTP, ResetOTP, Welcome}

var ErrUnknownTemplate = errors.New("unknown email template")

// EmailData is the data every template renders from.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`
	Role           string `json:"Role"`

	CompanyName string `json:"CompanyName"`
	AppName     string `json:"AppName"`
	LogoURL     string `json:"LogoURL"`
	SupportURL  string `json:"SupportURL"`

	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
	IP            string    `json:"IP"`
	UserAgent     string    `json:"UserAgent"`
	Time          string    `json:"Time"`
	Code          string    `json:"Code"`
}

// ToMap flattens d into the map carried by EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
		"default":    defaultFn,
	}
}

type set struct {
	text *texttpl.Template
	html *htmpl.Template
}

// load parses the embedded files once. Subjects and text bodies share the
// text/template set; HTML bodies are escaped by html/template.
var load = sync.OnceValues(func() (set, error) {
	text, err := texttpl.New("text").Funcs(texttpl.FuncMap(baseFuncs())).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl")
	if err != nil {
		return set{}, fmt.Errorf("parse text templates: %w", err)
	}
	html, err := htmpl.New("html").Funcs(htmpl.FuncMap(baseFuncs())).ParseFS(FS, "*.html.tmpl")
	if err != nil {
		return set{}, fmt.Errorf("parse html templates: %w", err)
	}
	return set{text: text, html: html}, nil
})

func execute(exec func(*bytes.Buffer) error, file string) (string, error) {
	var buf bytes.Buffer
	if err := exec(&buf); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

// Render renders the subject, text and html parts of template name.
func Render(name string, data any) (subject, text, html string, err error) {
	s, err := load()
	if err != nil {
		return "", "", "", err
	}
	if s.html.Lookup(name+".html.tmpl") == nil || s.text.Lookup(name+".subject.tmpl") == nil {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	textPart := func(suffix string) (string, error) {
		file := name + suffix
		return execute(func(b *bytes.Buffer) error { return s.text.ExecuteTemplate(b, file, data) }, file)
	}
	if subject, err = textPart(".subject.tmpl"); err != nil {
		return "", "", "", err
	}
	if text, err = textPart(".text.tmpl"); err != nil {
		return "", "", "", err
	}
	file := name + ".html.tmpl"
	if html, err = execute(func(b *bytes.Buffer) error { return s.html.ExecuteTemplate(b, file, data) }, file); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
