package observability

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// PublisherWithTracing opens a producer span per message and injects its context into
// the metadata, so the consumer side continues the same trace.
type PublisherWithTracing struct {
	message.Publisher
}

func (p PublisherWithTracing) Publish(topic string, messages ...*message.Message) error {
	tracer := otel.Tracer("ticketing/publisher")

	spans := make([]trace.Span, 0, len(messages))
	for _, msg := range messages {
		ctx, span := tracer.Start(msg.Context(), "publish "+topic,
			trace.WithSpanKind(trace.SpanKindProducer),
			trace.WithAttributes(
				attribute.String("messaging.destination.name", topic),
				attribute.String("messaging.message.id", msg.UUID),
			),
		)
		msg.SetContext(ctx)
		otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))
		spans = append(spans, span)
	}

	err := p.Publisher.Publish(topic, messages...)

	for _, span := range spans {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}

	return err
}
