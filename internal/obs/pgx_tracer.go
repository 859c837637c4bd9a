package obs

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// statementAttrLimit caps the db.statement attribute so a bulk seed or a wide
// upsert does not bloat span payloads.
const statementAttrLimit = 300

type querySpanKey struct{}

// PGXTracer spans every pool query the storefront runs against Postgres. It is
// attached to the pgxpool connection config in main.
type PGXTracer struct{}

// TraceQueryStart opens a span named after the SQL verb, "db.select" for a
// catalog read and "db.insert" for an entitlement grant.
func (PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx, span := otel.Tracer("videosplus/db").Start(ctx, "db."+sqlVerb(data.SQL))
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.statement", summarizeSQL(data.SQL)),
	)
	return context.WithValue(ctx, querySpanKey{}, span)
}

// TraceQueryEnd records the query error, if any, and closes the span.
func (PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span, ok := ctx.Value(querySpanKey{}).(trace.Span)
	if !ok {
		return
	}
	if data.Err != nil {
		span.RecordError(data.Err)
	}
	span.End()
}

func sqlVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "query"
	}
	return strings.ToLower(fields[0])
}

func summarizeSQL(sql string) string {
	trimmed := strings.Join(strings.Fields(sql), " ")
	if len(trimmed) > statementAttrLimit {
		return trimmed[:statementAttrLimit] + "..."
	}
	return trimmed
}
