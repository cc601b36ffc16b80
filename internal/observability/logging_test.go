package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdumontet/ringside/internal/config"
	"github.com/fdumontet/ringside/internal/observability"
)

func TestNewLogger(t *testing.T) {
	logger, err := observability.NewLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Debug("test entry")
	_ = logger.Sync()
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "verbose", Format: "json"})
	assert.Error(t, err)

	_, err = observability.NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
