package mem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTryBegin_SingleFlight(t *testing.T) {
	guard := NewRenewalGuard()

	assert.True(t, guard.TryBegin("renew:a:100", time.Minute))
	assert.False(t, guard.TryBegin("renew:a:100", time.Minute))

	// Different keys do not interfere
	assert.True(t, guard.TryBegin("renew:b:100", time.Minute))
}

func TestTryBegin_ExpiredClaimIsReusable(t *testing.T) {
	guard := NewRenewalGuard()

	assert.True(t, guard.TryBegin("renew:a:100", 5*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	assert.True(t, guard.TryBegin("renew:a:100", time.Minute))
}

func TestRelease_FreesTheKeyEarly(t *testing.T) {
	guard := NewRenewalGuard()

	assert.True(t, guard.TryBegin("renew:a:100", time.Hour))
	guard.Release("renew:a:100")
	assert.True(t, guard.TryBegin("renew:a:100", time.Hour))
}
