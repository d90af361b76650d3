package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginThrottle_LocksAfterThresholdExactly(t *testing.T) {
	th := NewLoginThrottle(3)

	assert.False(t, th.IsLocked("asha"))
	assert.Equal(t, 3, th.AttemptsLeft("asha"))

	th.RecordFailure("asha")
	assert.False(t, th.IsLocked("asha"))
	assert.Equal(t, 2, th.AttemptsLeft("asha"))

	th.RecordFailure("asha")
	assert.False(t, th.IsLocked("asha"))
	assert.Equal(t, 1, th.AttemptsLeft("asha"))

	th.RecordFailure("asha")
	assert.True(t, th.IsLocked("asha"))
	assert.Equal(t, 0, th.AttemptsLeft("asha"))
}

func TestLoginThrottle_ClampsBeyondThreshold(t *testing.T) {
	th := NewLoginThrottle(3)

	for i := 0; i < 10; i++ {
		th.RecordFailure("asha")
	}

	assert.True(t, th.IsLocked("asha"))
	assert.Equal(t, 0, th.AttemptsLeft("asha"))

	// a single reset reopens regardless of how many failures came in
	th.Reset("asha")
	assert.False(t, th.IsLocked("asha"))
	assert.Equal(t, 3, th.AttemptsLeft("asha"))
}

func TestLoginThrottle_IdentitiesAreIndependent(t *testing.T) {
	th := NewLoginThrottle(3)

	th.RecordFailure("asha")
	th.RecordFailure("asha")
	th.RecordFailure("asha")

	assert.True(t, th.IsLocked("asha"))
	assert.False(t, th.IsLocked("ravi"))
	assert.Equal(t, 3, th.AttemptsLeft("ravi"))
}

func TestLoginThrottle_ResetClearsCount(t *testing.T) {
	th := NewLoginThrottle(3)

	th.RecordFailure("asha")
	th.RecordFailure("asha")
	th.Reset("asha")

	assert.Equal(t, 3, th.AttemptsLeft("asha"))
	assert.False(t, th.IsLocked("asha"))
}
