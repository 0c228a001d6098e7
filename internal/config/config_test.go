package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.completeditmate.app/api", cfg.API.URL)
	assert.Empty(t, cfg.API.Key)
	assert.Empty(t, cfg.Identity.DeviceID, "device id is generated on first run, not here")
	assert.Equal(t, "retain", cfg.Library.OnFailure)
	assert.Equal(t, 24, cfg.UI.PageSize)
	assert.Equal(t, "browse", cfg.UI.DefaultView)
	assert.True(t, cfg.IsConfigured())
}

func TestPageSizeClampedToOfferedSizes(t *testing.T) {
	cfg := DefaultConfig()

	for _, valid := range []int{12, 24, 36, 48} {
		cfg.UI.PageSize = valid
		assert.Equal(t, valid, cfg.PageSize())
	}

	cfg.UI.PageSize = 17
	assert.Equal(t, 24, cfg.PageSize())
	cfg.UI.PageSize = 0
	assert.Equal(t, 24, cfg.PageSize())
	cfg.UI.PageSize = -5
	assert.Equal(t, 24, cfg.PageSize())
}
