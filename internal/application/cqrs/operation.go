package cqrs

import (
	"context"
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Outcomes recorded for every operation
const (
	OutcomeSuccess         = "success"
	OutcomeNoop            = "noop"
	OutcomeNotFound        = "not_found"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeValidation      = "validation_failed"
	OutcomeConflict        = "conflict"
	OutcomeCanceled        = "canceled"
	OutcomeError           = "error"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_operations_total",
			Help: "Total number of command and query executions",
		},
		[]string{"operation", "outcome"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_operation_duration_seconds",
			Help:    "Command and query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

var tracer = otel.Tracer("github.com/crm/backend/internal/application")

// Operation is the envelope around one command or query execution: a span, a logger carrying
// the operation name and trace id, and outcome metrics.
type Operation struct {
	name     string
	logger   *zap.Logger
	span     trace.Span
	start    time.Time
	recorded bool
}

// Start opens an operation. Callers must defer End and finish with Succeed, Noop or Fail.
func Start(ctx context.Context, logger *zap.Logger, name string, fields ...zap.Field) (context.Context, *Operation) {
	ctx, span := tracer.Start(ctx, name)

	l := logger.With(zap.String("operation", name))
	if sc := span.SpanContext(); sc.IsValid() {
		l = l.With(zap.String("trace_id", sc.TraceID().String()))
	}
	if len(fields) > 0 {
		l = l.With(fields...)
	}
	l.Debug("Operation started")

	return ctx, &Operation{name: name, logger: l, span: span, start: time.Now()}
}

// Logger returns the operation-scoped logger
func (o *Operation) Logger() *zap.Logger {
	return o.logger
}

// Succeed logs msg at info and records a successful outcome
func (o *Operation) Succeed(msg string, fields ...zap.Field) {
	o.logger.Info(msg, fields...)
	o.record(OutcomeSuccess)
}

// Noop logs msg at info and records an operation that legitimately changed nothing,
// such as deleting a record that is already retired.
func (o *Operation) Noop(msg string, fields ...zap.Field) {
	o.logger.Info(msg, fields...)
	o.record(OutcomeNoop)
}

// Fail logs err and returns it unchanged. Expected domain outcomes log at warn;
// anything else is an infrastructure failure and logs at error.
func (o *Operation) Fail(err error, msg string, fields ...zap.Field) error {
	outcome := OutcomeOf(err)
	fields = append(fields, zap.Error(err), zap.String("outcome", outcome))
	if outcome == OutcomeError {
		o.logger.Error(msg, fields...)
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	} else {
		o.logger.Warn(msg, fields...)
	}
	o.record(outcome)
	return err
}

// End closes the span
func (o *Operation) End() {
	if !o.recorded {
		o.record(OutcomeError)
	}
	o.span.End()
}

// Publish hands events to the publisher. Failures are logged only.
func (o *Operation) Publish(ctx context.Context, publisher shared.EventPublisher, events ...shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		o.logger.Warn("Failed to publish change events", zap.Error(err))
	}
}

func (o *Operation) record(outcome string) {
	if o.recorded {
		return
	}
	o.recorded = true
	o.span.SetAttributes(attribute.String("crm.outcome", outcome))
	operationsTotal.WithLabelValues(o.name, outcome).Inc()
	operationDuration.WithLabelValues(o.name).Observe(time.Since(o.start).Seconds())
}

// OutcomeOf classifies err for logs and metrics
func OutcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if _, ok := shared.AsValidationError(err); ok {
		return OutcomeValidation
	}
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, shared.ErrInvalidArgument):
		return OutcomeInvalidArgument
	case errors.Is(err, shared.ErrAlreadyExists):
		return OutcomeConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	}
	return OutcomeError
}
