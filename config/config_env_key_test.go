package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"storage": map[string]any{
			"driver": "memory",
			"redis": map[string]any{
				"useTls": false,
			},
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"auth": map[string]any{
			"initialStateTimeout": "5s",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "STORAGE_DRIVER", want: "storage.driver"},
		{envKey: "STORAGE_REDIS_USETLS", want: "storage.redis.useTls"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "AUTH_INITIALSTATETIMEOUT", want: "auth.initialStateTimeout"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "100KB", cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 100*time.Millisecond, cfg.Remote.MinLatency)
	assert.Equal(t, 150*time.Millisecond, cfg.Remote.MaxLatency)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.Auth.InitialStateTimeout)
	assert.Equal(t, "admin", cfg.Auth.AdminShortcut)
}

func TestApplyDefaults_ClampsInvertedLatencyWindow(t *testing.T) {
	cfg := &Config{Remote: &RemoteConfig{MinLatency: time.Second, MaxLatency: time.Millisecond}}
	ApplyDefaults(cfg)

	assert.Equal(t, time.Second, cfg.Remote.MaxLatency)
}
