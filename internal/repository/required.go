package repository

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/d60-Lab/socialgraph/pkg/database"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	naming       = schema.NamingStrategy{}
)

type tabler interface{ TableName() string }

// checkRequired 在写库前检查 validate:"required" 字段。
// Go 零值不是 NULL，不检查的话空字符串会直接落库。
func checkRequired(m tabler) error {
	validateOnce.Do(func() { validate = validator.New() })

	err := validate.Struct(m)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &database.ConstraintError{
		Kind:       database.ErrNotNullViolation,
		Table:      m.TableName(),
		Constraint: m.TableName() + "." + naming.ColumnName("", fe.StructField()),
		Err:        fe,
	}
}

func notNull(m tabler, column string) error {
	return &database.ConstraintError{
		Kind:       database.ErrNotNullViolation,
		Table:      m.TableName(),
		Constraint: m.TableName() + "." + column,
	}
}

// window 应用 offset/limit，limit <= 0 表示不限
func window(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset > 0 {
			db = db.Offset(offset)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}
