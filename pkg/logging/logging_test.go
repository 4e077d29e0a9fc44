// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		format        string
		errorContains string
	}{
		{name: "console info", level: "info", format: "console"},
		{name: "json debug", level: "debug", format: "json"},
		{name: "default format", level: "warn", format: ""},
		{name: "bad level", level: "loud", format: "console", errorContains: "invalid log level"},
		{name: "bad format", level: "info", format: "xml", errorContains: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNew_LevelApplied(t *testing.T) {
	logger, err := New("warn", "json")
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()), "missing logger falls back to no-op")

	logger := zaptest.NewLogger(t).Sugar()
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
