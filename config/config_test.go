package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := parse([]byte("server:\n  port: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, 120, cfg.Tracking.StaleAfterSec)
	assert.Equal(t, 900, cfg.Emergency.CountdownSec)
}

func TestParseTreatsExplicitZeroAsUnset(t *testing.T) {
	// A written-out zero gets the default, same as omitting the key.
	yml := `
tracking:
  staleAfterSec: 0
emergency:
  countdownSec: 0
`
	cfg, err := parse([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Tracking.StaleAfterSec)
	assert.Equal(t, 900, cfg.Emergency.CountdownSec)
}

func TestParseKeepsExplicitValues(t *testing.T) {
	yml := `
server:
  port: 8080
tracking:
  staleAfterSec: 60
emergency:
  countdownSec: 300
alerts:
  webhookURL: https://hooks.example.com/alert_sos
routing:
  osrmBaseURL: https://router.example.com
`
	cfg, err := parse([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Tracking.StaleAfterSec)
	assert.Equal(t, 300, cfg.Emergency.CountdownSec)
	assert.Equal(t, "https://hooks.example.com/alert_sos", cfg.Alerts.WebhookURL)
	assert.Equal(t, "https://router.example.com", cfg.Routing.OSRMBaseURL)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	_, err := parse([]byte("alerts:\n  webhookURL: not-a-url\n"))
	assert.Error(t, err)

	_, err = parse([]byte("server: [broken\n"))
	assert.Error(t, err)
}
