package database

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	pluginName      = "socialgraph:observability"
	spanInstanceKey = "socialgraph:span"
)

// ObservabilityPlugin wraps every gorm statement in a client span and reports
// unexpected store errors to sentry. Both are no-ops until monitor installs a
// tracer provider or a sentry client.
type ObservabilityPlugin struct {
	tracer trace.Tracer
	report func(error)
}

func NewObservabilityPlugin() *ObservabilityPlugin {
	return &ObservabilityPlugin{
		tracer: otel.Tracer("github.com/d60-Lab/socialgraph/pkg/database"),
		report: func(err error) { sentry.CaptureException(err) },
	}
}

func (p *ObservabilityPlugin) Name() string { return pluginName }

func (p *ObservabilityPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register(key("before_create"), p.before("create")),
		cb.Create().After("gorm:create").Register(key("after_create"), p.after),
		cb.Query().Before("gorm:query").Register(key("before_query"), p.before("query")),
		cb.Query().After("gorm:query").Register(key("after_query"), p.after),
		cb.Update().Before("gorm:update").Register(key("before_update"), p.before("update")),
		cb.Update().After("gorm:update").Register(key("after_update"), p.after),
		cb.Delete().Before("gorm:delete").Register(key("before_delete"), p.before("delete")),
		cb.Delete().After("gorm:delete").Register(key("after_delete"), p.after),
		cb.Row().Before("gorm:row").Register(key("before_row"), p.before("row")),
		cb.Row().After("gorm:row").Register(key("after_row"), p.after),
		cb.Raw().Before("gorm:raw").Register(key("before_raw"), p.before("raw")),
		cb.Raw().After("gorm:raw").Register(key("after_raw"), p.after),
	)
}

func key(name string) string { return pluginName + ":" + name }

func (p *ObservabilityPlugin) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement.Context == nil {
			return
		}
		ctx, span := p.tracer.Start(db.Statement.Context, "gorm."+op, trace.WithSpanKind(trace.SpanKindClient))
		db.Statement.Context = ctx
		db.InstanceSet(spanInstanceKey, span)
	}
}

func (p *ObservabilityPlugin) after(db *gorm.DB) {
	v, ok := db.InstanceGet(spanInstanceKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", db.Dialector.Name()),
		attribute.String("db.table", db.Statement.Table),
		attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
	)
	if db.Error == nil {
		return
	}
	span.RecordError(db.Error)
	if expected(db.Error) {
		return
	}
	span.SetStatus(codes.Error, db.Error.Error())
	if p.report != nil {
		p.report(db.Error)
	}
}
