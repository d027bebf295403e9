package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	heartbeat int
	name      string
	calls     []string
}

func withHeartbeat(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n <= 0 {
			return errors.New("heartbeat must be positive")
		}
		c.heartbeat = n
		c.calls = append(c.calls, "heartbeat")

		return nil
	})
}

func withName(name string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.name = name
		c.calls = append(c.calls, "name")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withName("trace"), withHeartbeat(10))

		require.NoError(t, err)
		require.Equal(t, 10, cfg.heartbeat)
		require.Equal(t, "trace", cfg.name)
		require.Equal(t, []string{"name", "heartbeat"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withHeartbeat(0), withName("never"))

		require.ErrorContains(t, err, "heartbeat must be positive")
		require.Empty(t, cfg.name)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg, nil, withName("x")))
		require.Equal(t, "x", cfg.name)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg))
		require.Empty(t, cfg.calls)
	})
}
