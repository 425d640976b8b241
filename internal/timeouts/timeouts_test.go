package timeouts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromMillis(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 150*time.Millisecond, FromMillis(150, RemovalAnimationDelay))
	assert.Equal(t, RemovalAnimationDelay, FromMillis(0, RemovalAnimationDelay))
	assert.Equal(t, PickCountdown, FromMillis(-5, PickCountdown))
}
