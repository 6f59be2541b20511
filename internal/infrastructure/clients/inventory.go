package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	domain "ticketing/internal/domain/inventory"
	"ticketing/internal/idempotency"
)

// InventoryClient talks to the inventory service over HTTP. It is used by the booking
// service for the admission read and by the order service for decrements.
type InventoryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewInventoryClient(baseURL string, httpClient *http.Client) *InventoryClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &InventoryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *InventoryClient) ReadCapacity(ctx context.Context, eventID int64) (domain.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.eventURL(eventID), nil)
	if err != nil {
		return domain.Event{}, err
	}

	var event domain.Event
	if err := c.do(req, eventID, &event); err != nil {
		return domain.Event{}, err
	}

	return event, nil
}

type decrementRequest struct {
	Count          int64  `json:"count"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (c *InventoryClient) Decrement(
	ctx context.Context,
	eventID int64,
	count int64,
	idempotencyKey string,
) (domain.DecrementResult, error) {
	body, err := json.Marshal(decrementRequest{
		Count:          count,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return domain.DecrementResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.eventURL(eventID)+"/decrements", bytes.NewReader(body))
	if err != nil {
		return domain.DecrementResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(idempotency.Header, idempotencyKey)

	var result domain.DecrementResult
	if err := c.do(req, eventID, &result); err != nil {
		return domain.DecrementResult{}, err
	}

	return result, nil
}

func (c *InventoryClient) eventURL(eventID int64) string {
	return c.baseURL + "/inventory/events/" + strconv.FormatInt(eventID, 10)
}

func (c *InventoryClient) do(req *http.Request, eventID int64, out any) error {
	if correlationID := log.CorrelationIDFromContext(req.Context()); correlationID != "" {
		req.Header.Set("Correlation-ID", correlationID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrTransientStoreFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("event %d: %w", eventID, domain.ErrEventNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("event %d: %w", eventID, domain.ErrInvalidCount)
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: unexpected status code: %d", domain.ErrTransientStoreFailure, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", domain.ErrTransientStoreFailure, err)
	}

	return nil
}
