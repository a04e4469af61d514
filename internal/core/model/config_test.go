package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampTickInterval(t *testing.T) {
	assert.Equal(t, MinTickInterval, ClampTickInterval(time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, ClampTickInterval(250*time.Millisecond))
	assert.Equal(t, MaxTickInterval, ClampTickInterval(10*time.Second))
	assert.Equal(t, DefaultEngineConfig().TickInterval, ClampTickInterval(DefaultEngineConfig().TickInterval))
}
