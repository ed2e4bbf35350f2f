package schemadoc

import (
	"fmt"
	"io"
	"strings"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Render writes tables in the given format, text or markdown.
func Render(w io.Writer, tables []Table, format string) error {
	switch format {
	case FormatText, "":
		renderText(w, tables)
	case FormatMarkdown:
		renderMarkdown(w, tables)
	default:
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", format)
	}
	return nil
}

func renderText(w io.Writer, tables []Table) {
	for i, t := range tables {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		pk := ""
		if len(t.PrimaryKey) > 0 {
			pk = fmt.Sprintf(" (PK: %s)", strings.Join(t.PrimaryKey, ", "))
		}
		_, _ = fmt.Fprintf(w, "TABLE %s%s\n", t.Name, pk)

		for _, c := range t.Columns {
			_, _ = fmt.Fprintf(w, "  %s\n", strings.Join(append([]string{c.Name + ":", c.Type}, constraints(c, nil)...), " "))
		}

		if len(t.ForeignKeys) > 0 {
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, "  FOREIGN KEYS:")
			for _, fk := range t.ForeignKeys {
				_, _ = fmt.Fprintf(w, "    %s\n", describeFK(fk))
			}
		}

		if len(t.Indexes) > 0 {
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, "  INDEXES:")
			for _, idx := range t.Indexes {
				unique := ""
				if idx.IsUnique {
					unique = " UNIQUE"
				}
				_, _ = fmt.Fprintf(w, "    %s (%s)%s\n", idx.Name, strings.Join(idx.Columns, ", "), unique)
			}
		}
	}
}

func renderMarkdown(w io.Writer, tables []Table) {
	_, _ = fmt.Fprintln(w, "# Database Schema")
	_, _ = fmt.Fprintln(w)

	for _, t := range tables {
		_, _ = fmt.Fprintf(w, "## %s\n\n", t.Name)

		_, _ = fmt.Fprintln(w, "### Columns")
		_, _ = fmt.Fprintln(w)
		for _, c := range t.Columns {
			if cs := constraints(c, t.PrimaryKey); len(cs) > 0 {
				_, _ = fmt.Fprintf(w, "- **%s:** %s, %s\n", c.Name, c.Type, strings.Join(cs, ", "))
			} else {
				_, _ = fmt.Fprintf(w, "- **%s:** %s\n", c.Name, c.Type)
			}
		}
		_, _ = fmt.Fprintln(w)

		if len(t.ForeignKeys) > 0 {
			_, _ = fmt.Fprintln(w, "### Foreign keys")
			_, _ = fmt.Fprintln(w)
			for _, fk := range t.ForeignKeys {
				_, _ = fmt.Fprintf(w, "- %s\n", describeFK(fk))
			}
			_, _ = fmt.Fprintln(w)
		}

		if len(t.Indexes) > 0 {
			_, _ = fmt.Fprintln(w, "### Indexes")
			_, _ = fmt.Fprintln(w)
			for _, idx := range t.Indexes {
				if idx.IsUnique {
					_, _ = fmt.Fprintf(w, "- %s on (%s), unique\n", idx.Name, strings.Join(idx.Columns, ", "))
				} else {
					_, _ = fmt.Fprintf(w, "- %s on (%s)\n", idx.Name, strings.Join(idx.Columns, ", "))
				}
			}
			_, _ = fmt.Fprintln(w)
		}
	}
}

func describeFK(fk ForeignKey) string {
	s := fmt.Sprintf("%s: %s → %s.%s", fk.Name,
		strings.Join(fk.Columns, ", "), fk.RefTable, strings.Join(fk.RefColumns, ", "))
	if fk.OnDelete != "" {
		s += " ON DELETE " + fk.OnDelete
	}
	return s
}

// constraints 主键列只在 markdown 里标注 PK，text 在表头给出
func constraints(c Column, primaryKey []string) []string {
	var cs []string
	for _, pk := range primaryKey {
		if pk == c.Name {
			cs = append(cs, "PK")
			break
		}
	}
	if c.IsUnique {
		cs = append(cs, "UNIQUE")
	}
	if !c.Nullable {
		cs = append(cs, "NOT NULL")
	}
	if c.DefaultValue != nil {
		cs = append(cs, "DEFAULT "+*c.DefaultValue)
	}
	return cs
}
