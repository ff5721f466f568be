// Package view renders the HTML pages of the site.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/votemonitor/internal/claimflow"
	"github.com/votemonitor/internal/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Page is the data every template gets.
type Page struct {
	Site config.SiteConfig
}

type landingPage struct {
	Page
	Description template.HTML
}

type resultPage struct {
	Page
	State           string
	Email           string
	Password        string
	AccountTTLHours int
}

// Landing writes the home page.
func Landing(w io.Writer, site config.SiteConfig, description template.HTML) error {
	return execute(w, "landing", landingPage{Page: Page{Site: site}, Description: description})
}

// CredentialsStart writes the page head and the loading card. The caller flushes it
// before the claim resolves.
func CredentialsStart(w io.Writer, site config.SiteConfig) error {
	return execute(w, "credentials_start", Page{Site: site})
}

// CredentialsResult writes the card of a finished flow and closes the page.
func CredentialsResult(w io.Writer, site config.SiteConfig, flow *claimflow.Flow, accountTTLHours int) error {
	st := flow.State()
	if !st.Terminal() {
		return fmt.Errorf("view.CredentialsResult: flow still %s", st)
	}
	data := resultPage{Page: Page{Site: site}, State: st.String(), AccountTTLHours: accountTTLHours}
	if creds := flow.Credentials(); creds != nil {
		data.Email = creds.Email
		data.Password = creds.Password
	}
	return execute(w, "credentials_result", data)
}

func execute(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("view.%s: %w", name, err)
	}
	return nil
}
