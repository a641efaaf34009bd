package logging

import (
	"os"

	"github.com/arloliu/distboost/types"
)

// NopLogger implements a no-op logger.
//
// All log messages are discarded. This is the default when no logger is
// provided, eliminating nil checks throughout the codebase.
type NopLogger struct{}

// Compile-time assertion that NopLogger implements Logger.
var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a new no-op logger.
//
// Returns:
//   - *NopLogger: A logger that discards all messages
func NewNop() *NopLogger {
	return &NopLogger{}
}

// Debug discards the message.
func (n *NopLogger) Debug(_ string, _ ...any) {}

// Info discards the message.
func (n *NopLogger) Info(_ string, _ ...any) {}

// Warn discards the message.
func (n *NopLogger) Warn(_ string, _ ...any) {}

// Error discards the message.
func (n *NopLogger) Error(_ string, _ ...any) {}

// Fatal discards the message and exits.
//
// Even a no-op logger must preserve Fatal's exit contract.
func (n *NopLogger) Fatal(_ string, _ ...any) {
	os.Exit(1) //nolint:revive // Fatal should exit the program
}
