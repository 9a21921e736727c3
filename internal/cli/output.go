package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/pkg/dateformat"
)

// Output formats accepted by --output.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type printer struct {
	out    io.Writer
	format string
}

func validFormat(f string) bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// print writes v as JSON or YAML, or calls table with a tabwriter for the
// table format.
func (p printer) print(v any, table func(w io.Writer)) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		// Round-trip through JSON so YAML keys follow the json tags.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func (p printer) line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func renderNotification(n domain.Notification) string {
	style := infoStyle
	switch n.Type {
	case domain.NotificationSuccess:
		style = successStyle
	case domain.NotificationError:
		style = errorStyle
	case domain.NotificationWarning:
		style = warningStyle
	}
	if n.Message == "" {
		return style.Render(n.Title)
	}
	return style.Render(n.Title) + " " + mutedStyle.Render(n.Message)
}

func userTable(w io.Writer, u *domain.User) {
	fmt.Fprintf(w, "ID\t%s\n", u.ID)
	fmt.Fprintf(w, "NOM\t%s\n", strings.TrimSpace(u.Prenom+" "+u.Nom))
	fmt.Fprintf(w, "EMAIL\t%s\n", u.Email)
	fmt.Fprintf(w, "TELEPHONE\t%s\n", u.Telephone)
	fmt.Fprintf(w, "ROLE\t%s\n", u.ResolvedRoleSlug())
	if u.Role != nil {
		fmt.Fprintf(w, "PERMISSIONS\t%s\n", strings.Join(u.Role.PermissionSlugs(), ", "))
	}
}

func rolesTable(w io.Writer, roles []domain.Role) {
	fmt.Fprintln(w, "ID\tSLUG\tNOM\tPERMISSIONS\tUTILISATEURS\tCREE LE")
	for _, r := range roles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", r.ID, r.Slug, r.Nom, len(r.Permissions), r.UsersCount, dateformat.Display(r.CreatedAt))
	}
}

func roleTable(w io.Writer, r *domain.Role) {
	fmt.Fprintf(w, "ID\t%s\n", r.ID)
	fmt.Fprintf(w, "SLUG\t%s\n", r.Slug)
	fmt.Fprintf(w, "NOM\t%s\n", r.Nom)
	if r.Description != "" {
		fmt.Fprintf(w, "DESCRIPTION\t%s\n", r.Description)
	}
	fmt.Fprintf(w, "CREE LE\t%s\n", dateformat.Display(r.CreatedAt))
	fmt.Fprintf(w, "MODIFIE LE\t%s\n", dateformat.Display(r.UpdatedAt))
	fmt.Fprintf(w, "PERMISSIONS\t%s\n", strings.Join(r.PermissionSlugs(), ", "))
}

func permissionsTable(w io.Writer, perms []domain.Permission) {
	fmt.Fprintln(w, "ID\tSLUG\tNOM")
	for _, p := range perms {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Slug, p.Nom)
	}
}

func citiesTable(w io.Writer, cities []domain.Ville) {
	fmt.Fprintln(w, "ID\tNOM\tCREE LE")
	for _, v := range cities {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Nom, dateformat.Display(v.CreatedAt))
	}
}
