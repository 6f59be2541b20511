package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"ticketing/internal/app"
	"ticketing/internal/config"
	"ticketing/internal/interfaces/message/events"
)

const consumerGroup = "poison-queue-cli"

type Message struct {
	ID     string
	Topic  string
	Reason string
}

type Handler struct {
	subscriber message.Subscriber
	publisher  message.Publisher
}

func NewHandler(cfg config.Bus) (*Handler, func() error, error) {
	logger := watermill.NewStdLogger(false, false)

	newSubscriber, closeSubscriber, err := app.NewBusSubscriberConstructor(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	sub, err := newSubscriber(consumerGroup)
	if err != nil {
		_ = closeSubscriber()
		return nil, nil, err
	}

	pub, closePublisher, err := app.NewBusPublisher(cfg, logger)
	if err != nil {
		_ = closeSubscriber()
		return nil, nil, err
	}

	closeAll := func() error {
		return errors.Join(closePublisher(), closeSubscriber())
	}

	return &Handler{
		subscriber: sub,
		publisher:  pub,
	}, closeAll, nil
}

// Preview walks the queue once. Every record is put back at the tail, so the walk ends
// when the first record comes around again.
func (h *Handler) Preview(ctx context.Context) ([]Message, error) {
	res := make([]Message, 0)

	err := h.walk(ctx, func(msg *message.Message) ([]*message.Message, bool) {
		res = append(res, Message{
			ID:     msg.UUID,
			Topic:  msg.Metadata.Get(middleware.PoisonedTopicKey),
			Reason: msg.Metadata.Get(middleware.ReasonForPoisonedKey),
		})

		return []*message.Message{msg}, false
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (h *Handler) Remove(ctx context.Context, id string) error {
	found := false

	err := h.walk(ctx, func(msg *message.Message) ([]*message.Message, bool) {
		if msg.UUID == id {
			found = true
			return nil, true
		}

		return []*message.Message{msg}, false
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("message %s not found", id)
	}

	return nil
}

// Requeue moves the record back to the topic it was poisoned on.
func (h *Handler) Requeue(ctx context.Context, id string) error {
	var requeueErr error
	found := false

	err := h.walk(ctx, func(msg *message.Message) ([]*message.Message, bool) {
		if msg.UUID != id {
			return []*message.Message{msg}, false
		}

		found = true
		topic := msg.Metadata.Get(middleware.PoisonedTopicKey)
		if topic == "" {
			requeueErr = fmt.Errorf("message %s has no source topic", id)
			return []*message.Message{msg}, true
		}

		requeueErr = h.publisher.Publish(topic, msg.Copy())
		if requeueErr != nil {
			return []*message.Message{msg}, true
		}

		return nil, true
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("message %s not found", id)
	}

	return requeueErr
}

// walk feeds poisoned records to fn, publishing back whatever fn returns. It stops when
// fn reports it is done, the first record is seen twice, or the timeout passes.
func (h *Handler) walk(
	ctx context.Context,
	fn func(msg *message.Message) (keep []*message.Message, done bool),
) error {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewStdLogger(false, false))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	firstMessageID := ""
	done := false

	router.AddHandler(
		"walk_poison_queue",
		events.PoisonQueueTopic,
		h.subscriber,
		events.PoisonQueueTopic,
		h.publisher,
		func(msg *message.Message) ([]*message.Message, error) {
			if done {
				cancel()
				return nil, errors.New("done")
			}

			if firstMessageID == "" {
				firstMessageID = msg.UUID
			} else if msg.UUID == firstMessageID {
				done = true
				return []*message.Message{msg}, nil
			}

			keep, finished := fn(msg)
			done = finished

			return keep, nil
		},
	)

	return router.Run(ctx)
}
