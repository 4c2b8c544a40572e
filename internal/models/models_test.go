package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingsMean(t *testing.T) {
	review := func(rating int) Review { return Review{Rating: rating} }

	tests := []struct {
		name    string
		reviews []Review
		want    float64
	}{
		{"no reviews", nil, 0},
		{"single review", []Review{review(5)}, 5},
		{"three reviews", []Review{review(5), review(3), review(4)}, 4.0},
		{"after deleting the 3", []Review{review(5), review(4)}, 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RatingsMean(tt.reviews))
		})
	}
}

func TestOrderStatusIsValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, OrderStatus("Refunded").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusShipped.Terminal())
}
