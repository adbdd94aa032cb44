package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPolicy(t *testing.T) {
	assert.Equal(t, 5, NewPolicy(5).FreeDailyLimit)
	assert.Equal(t, DefaultFreeDailyLimit, NewPolicy(0).FreeDailyLimit)
	assert.Equal(t, DefaultFreeDailyLimit, NewPolicy(-1).FreeDailyLimit)
}

func TestAllowed_FreeTier(t *testing.T) {
	p := NewPolicy(3)

	assert.True(t, p.Allowed(0, false))
	assert.True(t, p.Allowed(1, false))
	assert.True(t, p.Allowed(2, false))
	assert.False(t, p.Allowed(3, false))
	assert.False(t, p.Allowed(4, false))
	assert.False(t, p.Allowed(1000, false))
}

func TestAllowed_Premium(t *testing.T) {
	p := NewPolicy(3)

	assert.True(t, p.Allowed(0, true))
	assert.True(t, p.Allowed(3, true))
	assert.True(t, p.Allowed(1000000, true))
}
