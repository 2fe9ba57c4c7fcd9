package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/nandani/internal/models"
)

func TestRestocksOn(t *testing.T) {
	cases := []struct {
		prev string
		next string
		want bool
	}{
		{models.OrderStatusShipped, models.OrderStatusReturned, true},
		{models.OrderStatusPending, models.OrderStatusReturned, true},
		{models.OrderStatusReturnRequested, models.OrderStatusReturned, true},
		// Re-saving an already returned order must not restock again.
		{models.OrderStatusReturned, models.OrderStatusReturned, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, false},
		{models.OrderStatusReturned, models.OrderStatusCancelled, false},
		{models.OrderStatusPending, models.OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, restocksOn(tc.prev, tc.next), "%s -> %s", tc.prev, tc.next)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusReturnRequested, models.OrderStatusReturned,
		models.OrderStatusCancelled,
	} {
		assert.True(t, models.ValidOrderStatus(s), s)
	}

	assert.False(t, models.ValidOrderStatus("refunded"))
	assert.False(t, models.ValidOrderStatus(""))
}
