package events_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"ticketing/internal/entities"
	"ticketing/internal/interfaces/message/events"
)

func TestIsPoisonMessage(t *testing.T) {
	var target entities.BookingMade_v1
	syntaxErr := json.Unmarshal([]byte(`{"booking_id":`), &target)
	typeErr := json.Unmarshal([]byte(`{"ticket_count":"four"}`), &target)

	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "malformed record", err: fmt.Errorf("ticket_count 0: %w", entities.ErrMalformedRecord), want: true},
		{name: "json syntax", err: fmt.Errorf("cannot unmarshal: %w", syntaxErr), want: true},
		{name: "json type", err: typeErr, want: true},
		{name: "transient", err: errors.New("connection refused"), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, events.IsPoisonMessage(tc.err))
		})
	}
}
