package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/iterlife/expdash/internal/api"
	"github.com/iterlife/expdash/internal/config"
	"github.com/iterlife/expdash/internal/dashboard"
	"github.com/iterlife/expdash/internal/tui/theme"
)

type formKind int

const (
	formNone formKind = iota
	formYear
	formCategory
	formDates
	formExport
)

// formValues is heap-allocated so the pointers huh holds stay valid while
// the App value is copied between updates.
type formValues struct {
	year     string
	category string
	start    string
	end      string
	dataType string
	format   string
}

func selectOptions(s dashboard.Select) []huh.Option[string] {
	opts := make([]huh.Option[string], len(s.Options))
	for i, o := range s.Options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}
	return opts
}

func newYearForm(s dashboard.Select, vals *formValues) *huh.Form {
	vals.year = s.Value
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Year").
			Description("Scope the monthly chart").
			Options(selectOptions(s)...).
			Value(&vals.year),
	)).WithShowHelp(false)
}

func newCategoryForm(s dashboard.Select, vals *formValues) *huh.Form {
	vals.category = s.Value
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Category").
			Description("Load the spending trend for a category").
			Options(selectOptions(s)...).
			Height(12).
			Value(&vals.category),
	)).WithShowHelp(false)
}

func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return dashboard.ValidateDateRange(s, "")
}

func newDatesForm(f dashboard.Filters, vals *formValues) *huh.Form {
	vals.start, vals.end = f.Start, f.End
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Start date").
			Placeholder("YYYY-MM-DD (blank for none)").
			Validate(validateDate).
			Value(&vals.start),
		huh.NewInput().
			Title("End date").
			Placeholder("YYYY-MM-DD (blank for none)").
			Validate(func(s string) error {
				if err := validateDate(s); err != nil {
					return err
				}
				return dashboard.ValidateDateRange(strings.TrimSpace(vals.start), strings.TrimSpace(s))
			}).
			Value(&vals.end),
	)).WithShowHelp(false)
}

func newExportForm(vals *formValues) *huh.Form {
	if vals.dataType == "" {
		vals.dataType = api.ExportTypes[0]
	}
	if vals.format == "" {
		vals.format = api.ExportFormats[0]
	}
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Export data").
			Options(
				huh.NewOption("Monthly statistics", "monthly"),
				huh.NewOption("Yearly statistics", "yearly"),
				huh.NewOption("Category analysis", "category"),
			).
			Value(&vals.dataType),
		huh.NewSelect[string]().
			Title("Format").
			Options(huh.NewOptions(api.ExportFormats...)...).
			Value(&vals.format),
	)).WithShowHelp(false)
}

// SetupValues holds the answers of the setup wizard.
type SetupValues struct {
	BaseURL     string
	Theme       string
	ExportDir   string
	AutoRefresh bool
}

// NewSetupValues pre-fills the wizard from an existing config.
func NewSetupValues(cfg config.Config) *SetupValues {
	return &SetupValues{
		BaseURL:     cfg.Server.BaseURL,
		Theme:       cfg.Appearance.Theme,
		ExportDir:   cfg.Export.Dir,
		AutoRefresh: cfg.TUI.AutoRefresh,
	}
}

// Apply copies the answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")
	cfg.Appearance.Theme = v.Theme
	cfg.Export.Dir = strings.TrimSpace(v.ExportDir)
	cfg.TUI.AutoRefresh = v.AutoRefresh
}

func validateServerURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return errors.New("enter an http:// or https:// address")
	}
	return nil
}

// NewSetupForm builds the first-run wizard.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, name := range theme.Names() {
		themeOpts[i] = huh.NewOption(name, name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to expdash").
				Description("A terminal dashboard for your expense server.\nLet's point it at your server."),
			huh.NewInput().
				Title("Server address").
				Description("Where the expense API is served").
				Placeholder("http://localhost:5000").
				Validate(validateServerURL).
				Value(&vals.BaseURL),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewInput().
				Title("Export directory").
				Description(fmt.Sprintf("Exports are saved here (config: %s)", config.ConfigPath())).
				Value(&vals.ExportDir),
			huh.NewConfirm().
				Title("Refresh the dashboard automatically?").
				Value(&vals.AutoRefresh),
		),
	)
}
