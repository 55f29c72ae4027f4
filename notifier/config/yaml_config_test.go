package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"
	"github.com/tinywideclouds/go-marketplace-notifier/notifier/config"
)

func TestNewConfigFromYaml(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success - maps all fields correctly", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			ProjectID:              "yaml-project",
			ListenAddr:             ":9000",
			TopicID:                "yaml-topic",
			SubscriptionID:         "yaml-subscription",
			SubscriptionDLQTopicID: "yaml-dlq",
			NumPipelineWorkers:     5,
			CorsConfig: config.YamlCorsConfig{
				AllowedOrigins: []string{"http://yaml.com"},
				Role:           "editor",
			},
			RedisConfig: config.YamlRedisConfig{
				Addr:       "yaml-redis:6379",
				Password:   "yaml-secret",
				DB:         2,
				Enabled:    true,
				ProfileTTL: "30m",
			},
		}

		cfg, err := config.NewConfigFromYaml(yamlCfg, logger)

		require.NoError(t, err)
		require.NotNil(t, cfg)

		// 1. Direct Field Mapping
		assert.Equal(t, "yaml-project", cfg.ProjectID)
		assert.Equal(t, ":9000", cfg.ListenAddr)
		assert.Equal(t, "yaml-topic", cfg.TopicID)
		assert.Equal(t, "yaml-subscription", cfg.SubscriptionID)
		assert.Equal(t, "yaml-dlq", cfg.SubscriptionDLQTopicID)
		assert.Equal(t, 5, cfg.NumPipelineWorkers)

		// 2. Complex Logic: CORS
		assert.Equal(t, []string{"http://yaml.com"}, cfg.CorsConfig.AllowedOrigins)
		assert.Equal(t, middleware.CorsRoleEditor, cfg.CorsConfig.Role)

		// 3. Redis
		assert.Equal(t, "yaml-redis:6379", cfg.Redis.Addr)
		assert.Equal(t, "yaml-secret", cfg.Redis.Password)
		assert.Equal(t, 2, cfg.Redis.DB)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 30*time.Minute, cfg.Redis.ProfileTTL)

		assert.NotNil(t, cfg.PubsubConsumerConfig)
	})

	t.Run("Success - Handles missing optional fields gracefully", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			ProjectID:      "minimal-project",
			SubscriptionID: "minimal-sub",
		}

		cfg, err := config.NewConfigFromYaml(yamlCfg, logger)

		require.NoError(t, err)
		assert.Equal(t, "minimal-project", cfg.ProjectID)
		assert.Equal(t, 0, cfg.NumPipelineWorkers)
		assert.Empty(t, cfg.ListenAddr)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, time.Duration(0), cfg.Redis.ProfileTTL)
	})

	t.Run("Rejects malformed profile TTL", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			ProjectID:      "p",
			SubscriptionID: "s",
			RedisConfig:    config.YamlRedisConfig{ProfileTTL: "soon"},
		}

		_, err := config.NewConfigFromYaml(yamlCfg, logger)
		assert.Error(t, err)
	})
}
