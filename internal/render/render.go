// Package render turns advocate rows into the two display surfaces: the
// server-rendered HTML page and the terminal table.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
)

const bullet = "•"

// Headers are the table columns, in display order.
var Headers = []string{
	"First Name",
	"Last Name",
	"City",
	"Degree",
	"Specialties",
	"Years of Experience",
	"Phone Number",
}

//go:embed templates/*.gohtml
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.gohtml").
		Funcs(template.FuncMap{"bullet": func() string { return bullet }}).
		ParseFS(templateFS, "templates/index.gohtml"),
)

// Page is the data for the directory page.
type Page struct {
	Title   string
	Query   string
	Total   int
	Matched int
	Headers []string
	Rows    []advocate.Row
}

// HTML writes the directory page.
func HTML(w io.Writer, page Page) error {
	if page.Title == "" {
		page.Title = "Solace Advocates"
	}
	page.Headers = Headers
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("rendering directory page: %w", err)
	}
	return nil
}

var (
	accent      = lipgloss.Color("#1d4339")
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(accent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Center)
	phoneStyle  = cellStyle.Align(lipgloss.Right)
)

// Table writes rows as a bordered terminal table, one line per specialty.
func Table(w io.Writer, rows []advocate.Row) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accent)).
		Headers(Headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 5:
				return numberStyle
			case col == 6:
				return phoneStyle
			default:
				return cellStyle
			}
		})
	for _, r := range rows {
		t.Row(Cells(r)...)
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

// Cells flattens a row into the seven column strings, specialties bulleted
// one per line.
func Cells(r advocate.Row) []string {
	specialties := make([]string, len(r.Specialties))
	for i, s := range r.Specialties {
		specialties[i] = bullet + " " + s
	}
	return []string{
		r.FirstName,
		r.LastName,
		r.City,
		r.Degree,
		strings.Join(specialties, "\n"),
		strconv.Itoa(r.YearsOfExperience),
		r.Phone,
	}
}
