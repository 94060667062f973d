package obs

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxStatementLen = 300

type querySpanKey struct{}

// PGXTracer implements pgx.QueryTracer. Each statement becomes a client span
// named after its sqlc query, e.g. "db GetInvoiceForUpdate".
type PGXTracer struct{}

func (PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	name, operation := describeQuery(data.SQL)
	ctx, span := otel.Tracer("shashi.db").Start(ctx, "db "+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.statement", clip(data.SQL)),
		),
	)
	return context.WithValue(ctx, querySpanKey{}, span)
}

func (PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span, ok := ctx.Value(querySpanKey{}).(trace.Span)
	if !ok {
		return
	}
	defer span.End()
	if data.Err != nil {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, "query failed")
		return
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()))
}

// describeQuery pulls the sqlc query name from a "-- name: X :one" header and
// the leading SQL verb. Statements without a header are named by their verb.
func describeQuery(sql string) (name, operation string) {
	body := strings.TrimSpace(sql)
	if rest, ok := strings.CutPrefix(body, "-- name:"); ok {
		header, remainder, _ := strings.Cut(rest, "\n")
		if fields := strings.Fields(header); len(fields) > 0 {
			name = fields[0]
		}
		body = strings.TrimSpace(remainder)
	}
	if fields := strings.Fields(body); len(fields) > 0 {
		operation = strings.ToUpper(fields[0])
	}
	if name == "" {
		name = operation
	}
	if name == "" {
		name = "query"
	}
	return name, operation
}

func clip(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if len(trimmed) > maxStatementLen {
		return trimmed[:maxStatementLen] + "..."
	}
	return trimmed
}
