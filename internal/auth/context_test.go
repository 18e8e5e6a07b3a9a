package auth

import (
	"context"
	"testing"

	"github.com/skyops/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestToken_RoundTrip(t *testing.T) {
	ctx := WithToken(context.Background(), "Bearer abc123")

	token, err := Token(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Bearer abc123", token)
}

func TestToken_Missing(t *testing.T) {
	_, err := Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestToken_Empty(t *testing.T) {
	_, err := Token(WithToken(context.Background(), ""))
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}
