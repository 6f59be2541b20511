package events

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"ticketing/internal/entities"
)

func CorrelationIDMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := msg.Metadata.Get("correlation_id")

		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		ctx := log.ContextWithCorrelationID(msg.Context(), correlationID)

		ctx = log.ToContext(ctx,
			logrus.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"message_uuid":   msg.UUID,
			}),
		)

		msg.SetContext(ctx)

		return next(msg)
	}
}

func LoggingMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		log.FromContext(msg.Context()).
			WithField("payload", string(msg.Payload)).
			WithField("metadata", msg.Metadata).
			Info("Handling a message")

		messages, err := next(msg)

		if err != nil {
			log.FromContext(msg.Context()).
				WithField("payload", string(msg.Payload)).
				WithField("error", err).
				Error("Message handling error")
		}

		return messages, err
	}
}

func TracingMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		topic := message.SubscribeTopicFromCtx(msg.Context())
		handler := message.HandlerNameFromCtx(msg.Context())

		ctx := otel.GetTextMapPropagator().Extract(msg.Context(), propagation.MapCarrier(msg.Metadata))
		ctx, span := otel.Tracer("ticketing/router").Start(ctx, "handle "+topic,
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("messaging.destination.name", topic),
				attribute.String("messaging.consumer.handler", handler),
				attribute.String("messaging.message.id", msg.UUID),
			),
		)
		defer span.End()

		msg.SetContext(ctx)

		msgs, err := next(msg)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return msgs, err
	}
}

// IsPoisonMessage matches records that will never be processed, no matter how often
// they are redelivered.
func IsPoisonMessage(err error) bool {
	if errors.Is(err, entities.ErrMalformedRecord) {
		return true
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

var (
	messagesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_processed_total",
		Help: "Total number of messages processed",
	}, []string{"topic", "handler"})
	messagesProcessingFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_processing_failed_total",
		Help: "Total number of messages processing failures",
	}, []string{"topic", "handler"})

	messagesProcessingDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "messages_processing_duration_seconds",
		Help:       "Duration of message processing in seconds",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"topic", "handler"})
)

func MetricsMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		topic := message.SubscribeTopicFromCtx(msg.Context())
		handler := message.HandlerNameFromCtx(msg.Context())

		start := time.Now()

		msgs, err := next(msg)

		duration := time.Since(start)
		messagesProcessingDuration.WithLabelValues(topic, handler).Observe(duration.Seconds())

		messagesProcessedTotal.WithLabelValues(topic, handler).Inc()

		if err != nil {
			messagesProcessingFailedTotal.WithLabelValues(topic, handler).Inc()
		}

		return msgs, err
	}
}
