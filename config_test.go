package sentryotel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapConfig is an in-memory gofr config.Config.
type mapConfig map[string]string

func (m mapConfig) Get(key string) string { return m[key] }

func (m mapConfig) GetOrDefault(key, defaultValue string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}

	return defaultValue
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(mapConfig{"SENTRY_DSN": testDSN})
	require.NoError(t, err)

	assert.Equal(t, Config{
		DSN:              testDSN,
		TracesSampleRate: 1,
		Instrumenter:     InstrumenterOTel,
	}, cfg)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(mapConfig{
		"SENTRY_DSN":                testDSN,
		"SENTRY_ENVIRONMENT":        "staging",
		"SENTRY_RELEASE":            "items@1.2.0",
		"SENTRY_DEBUG":              "true",
		"SENTRY_TRACES_SAMPLE_RATE": "0.25",
		"SENTRY_INSTRUMENTER":       "sentry",
	})
	require.NoError(t, err)

	assert.Equal(t, Config{
		DSN:              testDSN,
		Environment:      "staging",
		Release:          "items@1.2.0",
		Debug:            true,
		TracesSampleRate: 0.25,
		Instrumenter:     InstrumenterSentry,
	}, cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		desc   string
		config mapConfig
		errMsg string
	}{
		{"malformed sample rate", mapConfig{"SENTRY_TRACES_SAMPLE_RATE": "all"}, "failed to parse SENTRY_TRACES_SAMPLE_RATE"},
		{"sample rate out of range", mapConfig{"SENTRY_TRACES_SAMPLE_RATE": "1.5"}, "must be within [0, 1]"},
		{"malformed debug flag", mapConfig{"SENTRY_DEBUG": "sometimes"}, "failed to parse SENTRY_DEBUG"},
		{"unknown instrumenter", mapConfig{"SENTRY_INSTRUMENTER": "jaeger"}, `unknown SENTRY_INSTRUMENTER "jaeger"`},
		{"dsn without project", mapConfig{"SENTRY_DSN": "https://public@sentry.example.com"}, "failed to parse SENTRY_DSN"},
	}

	for i, tc := range tests {
		_, err := LoadConfig(tc.config)

		require.Errorf(t, err, "TEST[%d], Failed.\n%s", i, tc.desc)
		assert.Containsf(t, err.Error(), tc.errMsg, "TEST[%d], Failed.\n%s", i, tc.desc)
	}
}
