package runcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNowReturnsPinnedTime(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := WithTime(context.Background(), fixed)

	assert.Equal(t, fixed, Now(ctx))
	// Repeated reads return the same instant, not a fresh clock sample.
	assert.Equal(t, Now(ctx), Now(ctx))
}

func TestNowFallsBackToWallClock(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestRunID(t *testing.T) {
	assert.Equal(t, uuid.Nil, RunID(context.Background()))

	id := uuid.New()
	ctx := WithRunID(context.Background(), id)
	assert.Equal(t, id, RunID(ctx))
}
