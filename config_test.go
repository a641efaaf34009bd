package distboost

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// captureLogger records warning messages for assertions.
type captureLogger struct {
	mu    sync.Mutex
	warns []string
}

var _ Logger = (*captureLogger)(nil)

func (l *captureLogger) Debug(_ string, _ ...any) {}
func (l *captureLogger) Info(_ string, _ ...any)  {}

func (l *captureLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func (l *captureLogger) Error(_ string, _ ...any) {}
func (l *captureLogger) Fatal(_ string, _ ...any) {}

func (l *captureLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.warns))
	copy(out, l.warns)

	return out
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 12400, cfg.BasePort)
	require.Equal(t, 120*time.Minute, cfg.RendezvousTimeout)
	require.Equal(t, 10*time.Second, cfg.OperationTimeout)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	cfg := Config{BasePort: 13000}
	SetDefaults(&cfg)

	require.Equal(t, 13000, cfg.BasePort)
	require.Equal(t, 120*time.Minute, cfg.RendezvousTimeout)
	require.Equal(t, 10*time.Second, cfg.OperationTimeout)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(_ *Config) {}},
		{
			name:    "base port too low",
			mutate:  func(cfg *Config) { cfg.BasePort = -1 },
			wantErr: "BasePort",
		},
		{
			name:    "base port too high",
			mutate:  func(cfg *Config) { cfg.BasePort = 70000 },
			wantErr: "BasePort",
		},
		{
			name:    "rendezvous timeout below a minute",
			mutate:  func(cfg *Config) { cfg.RendezvousTimeout = 30 * time.Second },
			wantErr: "RendezvousTimeout",
		},
		{
			name:    "operation timeout not positive",
			mutate:  func(cfg *Config) { cfg.OperationTimeout = -time.Second },
			wantErr: "OperationTimeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidateWithWarnings(t *testing.T) {
	t.Run("privileged port", func(t *testing.T) {
		logger := &captureLogger{}
		cfg := DefaultConfig()
		cfg.BasePort = 443

		cfg.ValidateWithWarnings(logger)
		require.Len(t, logger.warnings(), 1)
	})

	t.Run("sub-minute rendezvous precision", func(t *testing.T) {
		logger := &captureLogger{}
		cfg := DefaultConfig()
		cfg.RendezvousTimeout = 90 * time.Second

		cfg.ValidateWithWarnings(logger)
		require.Len(t, logger.warnings(), 1)
	})

	t.Run("no warnings for defaults", func(t *testing.T) {
		logger := &captureLogger{}
		cfg := DefaultConfig()

		cfg.ValidateWithWarnings(logger)
		require.Empty(t, logger.warnings())
	})
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.NoError(t, cfg.Validate())
	require.Equal(t, time.Minute, cfg.RendezvousTimeout)
}
