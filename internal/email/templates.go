package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type linkEmailData struct {
	baseEmailData
}

type appointmentEmailData struct {
	baseEmailData
	AppointmentDetails
	KindLabel string
	Status    string
}

type listingSoldEmailData struct {
	baseEmailData
	ListingTitle string
}

var (
	templateCache   = make(map[string]*template.Template)
	templateCacheMu sync.Mutex
)

func loadTemplate(name string) (*template.Template, error) {
	templateCacheMu.Lock()
	defer templateCacheMu.Unlock()
	if tmpl, ok := templateCache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := template.New("base.html").ParseFS(templateFS, "templates/base.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse email template %s: %w", name, err)
	}
	templateCache[name] = tmpl
	return tmpl, nil
}

func renderEmailTemplate(name string, data any) (string, error) {
	tmpl, err := loadTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func kindLabel(kind string) string {
	switch kind {
	case "test_drive":
		return "test drive"
	case "service":
		return "service"
	case "inspection":
		return "inspection"
	default:
		return strings.ReplaceAll(kind, "_", " ")
	}
}
