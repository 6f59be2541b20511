package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"ticketing/internal/config"
)

func main() {
	app := &cli.App{
		Name:  "poisonqueue",
		Usage: "Manage booking records moved to the poison queue",
		Commands: []*cli.Command{
			{
				Name:  "preview",
				Usage: "list poisoned records with the reason they were moved",
				Action: func(c *cli.Context) error {
					return withHandler(c.Context, func(h *Handler) error {
						messages, err := h.Preview(c.Context)
						if err != nil {
							return err
						}

						for _, m := range messages {
							fmt.Printf("%v\t%v\t%v\n", m.ID, m.Topic, m.Reason)
						}

						return nil
					})
				},
			},
			{
				Name:      "remove",
				ArgsUsage: "<message_id>",
				Usage:     "drop a poisoned record",
				Action: func(c *cli.Context) error {
					return withHandler(c.Context, func(h *Handler) error {
						return h.Remove(c.Context, c.Args().First())
					})
				},
			},
			{
				Name:      "requeue",
				ArgsUsage: "<message_id>",
				Usage:     "publish a poisoned record back to the topic it came from",
				Action: func(c *cli.Context) error {
					return withHandler(c.Context, func(h *Handler) error {
						return h.Requeue(c.Context, c.Args().First())
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withHandler(ctx context.Context, fn func(h *Handler) error) error {
	cfg, err := config.LoadPoisonQueue()
	if err != nil {
		return err
	}

	h, closeHandler, err := NewHandler(cfg.Bus)
	if err != nil {
		return err
	}
	defer closeHandler()

	return fn(h)
}
