package schemadoc

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/d60-Lab/socialgraph/internal/model"
)

// Describe derives every table of model.All from the gorm schema, in migration order.
func Describe(db *gorm.DB) ([]Table, error) {
	models := model.All()
	tables := make([]Table, 0, len(models))
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse %T: %w", m, err)
		}
		tables = append(tables, describe(stmt.Schema))
	}
	return tables, nil
}

func describe(s *schema.Schema) Table {
	t := Table{
		Name:       s.Table,
		PrimaryKey: append([]string(nil), s.PrimaryFieldDBNames...),
	}

	for _, idx := range s.ParseIndexes() {
		// ParseIndexes 已按 priority 排好字段顺序
		cols := make([]string, len(idx.Fields))
		for i, o := range idx.Fields {
			cols[i] = o.DBName
		}
		t.Indexes = append(t.Indexes, Index{Name: idx.Name, Columns: cols, IsUnique: idx.Class == "UNIQUE"})
	}
	sort.Slice(t.Indexes, func(i, j int) bool { return t.Indexes[i].Name < t.Indexes[j].Name })

	uniqueCols := map[string]bool{}
	for _, idx := range t.Indexes {
		if idx.IsUnique && len(idx.Columns) == 1 {
			uniqueCols[idx.Columns[0]] = true
		}
	}

	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		c := Column{
			Name:     f.DBName,
			Type:     columnType(f),
			Nullable: !f.NotNull && !f.PrimaryKey,
			IsUnique: f.Unique || uniqueCols[f.DBName],
		}
		if f.HasDefaultValue && f.DefaultValue != "" {
			def := f.DefaultValue
			c.DefaultValue = &def
		}
		t.Columns = append(t.Columns, c)
	}

	seen := map[string]bool{}
	for _, rel := range s.Relationships.Relations {
		c := rel.ParseConstraint()
		if c == nil || c.Schema != s || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		fk := ForeignKey{Name: c.Name, RefTable: c.ReferenceSchema.Table, OnDelete: strings.ToUpper(c.OnDelete)}
		for _, f := range c.ForeignKeys {
			fk.Columns = append(fk.Columns, f.DBName)
		}
		for _, f := range c.References {
			fk.RefColumns = append(fk.RefColumns, f.DBName)
		}
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}
	sort.Slice(t.ForeignKeys, func(i, j int) bool { return t.ForeignKeys[i].Name < t.ForeignKeys[j].Name })
	return t
}

// columnType 显式 type 标签优先，否则给出与方言无关的类型名
func columnType(f *schema.Field) string {
	if t, ok := f.TagSettings["TYPE"]; ok {
		return strings.ToLower(t)
	}
	switch f.DataType {
	case schema.Int, schema.Uint:
		return "integer"
	case schema.Float:
		return "real"
	case schema.Bool:
		return "boolean"
	case schema.Time:
		return "timestamp"
	case schema.String:
		if f.Size > 0 {
			return fmt.Sprintf("varchar(%d)", f.Size)
		}
		return "text"
	}
	return string(f.DataType)
}

// Verify reports every declared table, foreign key and index missing from the
// live database, as "table users", "constraint posts.fk_users_posts" or
// "index likes.unique_user_post_like".
func Verify(ctx context.Context, db *gorm.DB, tables []Table) ([]string, error) {
	m := db.WithContext(ctx).Migrator()
	var missing []string
	for _, t := range tables {
		if !m.HasTable(t.Name) {
			missing = append(missing, "table "+t.Name)
			continue
		}
		for _, fk := range t.ForeignKeys {
			if !m.HasConstraint(t.Name, fk.Name) {
				missing = append(missing, "constraint "+t.Name+"."+fk.Name)
			}
		}
		for _, idx := range t.Indexes {
			if !m.HasIndex(t.Name, idx.Name) {
				missing = append(missing, "index "+t.Name+"."+idx.Name)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return missing, nil
}
