package http_test

import (
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()

	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return id
}
