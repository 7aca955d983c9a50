// internal/logger/pretty.go
package logger

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// PrettyEncoder creates a user-friendly console encoder
func PrettyEncoder() zapcore.Encoder {
	config := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return zapcore.NewConsoleEncoder(config)
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(fmt.Sprintf("%s[DEBUG]%s", ColorCyan, ColorReset))
	case zapcore.InfoLevel:
		enc.AppendString(fmt.Sprintf("%s[INFO]%s", ColorGreen, ColorReset))
	case zapcore.WarnLevel:
		enc.AppendString(fmt.Sprintf("%s[WARN]%s", ColorYellow, ColorReset))
	case zapcore.ErrorLevel:
		enc.AppendString(fmt.Sprintf("%s[ERROR]%s", ColorRed, ColorReset))
	case zapcore.FatalLevel:
		enc.AppendString(fmt.Sprintf("%s[FATAL]%s", ColorRed+ColorBold, ColorReset))
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

// customTimeEncoder formats time in a readable way
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// FormatMessage creates user-friendly log messages
func FormatMessage(msg string, fields ...zapcore.Field) string {
	switch {
	case strings.HasPrefix(msg, "Creating token"):
		symbol := extractField(fields, "symbol")
		return fmt.Sprintf("%s🪙 Creating token %s%s", ColorBlue, symbol, ColorReset)

	case strings.HasPrefix(msg, "Token created"):
		mint := extractField(fields, "mint")
		return fmt.Sprintf("%s🎉 Token created: %s%s", ColorGreen+ColorBold, shortenAddress(mint), ColorReset)

	case strings.HasPrefix(msg, "Transferring tokens"):
		recipient := extractField(fields, "recipient")
		return fmt.Sprintf("%s➡️  Transferring to %s%s", ColorBlue, shortenAddress(recipient), ColorReset)

	case strings.HasPrefix(msg, "Transfer completed"):
		return fmt.Sprintf("%s💸 Transfer completed%s", ColorGreen+ColorBold, ColorReset)

	case strings.HasPrefix(msg, "Transaction sent"):
		sig := extractField(fields, "signature")
		return fmt.Sprintf("%s📤 Transaction sent: %s%s", ColorYellow, shortenSignature(sig), ColorReset)

	case strings.HasPrefix(msg, "Transaction confirmed"):
		sig := extractField(fields, "signature")
		return fmt.Sprintf("%s✅ Transaction confirmed: %s%s", ColorGreen, shortenSignature(sig), ColorReset)

	case strings.HasPrefix(msg, "Signer declined"):
		return fmt.Sprintf("%s✋ Signing declined%s", ColorPurple, ColorReset)

	case strings.HasPrefix(msg, "Holdings refreshed"):
		count := extractField(fields, "count")
		return fmt.Sprintf("%s📋 Holdings refreshed: %s accounts%s", ColorBlue, count, ColorReset)

	default:
		return msg
	}
}

// Helper functions
func extractField(fields []zapcore.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Uint64Type, zapcore.Uint32Type:
			return fmt.Sprintf("%d", field.Integer)
		case zapcore.StringerType:
			return fmt.Sprintf("%v", field.Interface)
		default:
			return fmt.Sprintf("%v", field.Interface)
		}
	}
	return ""
}

func shortenAddress(addr string) string {
	if len(addr) > 8 {
		return addr[:4] + "..." + addr[len(addr)-4:]
	}
	return addr
}

func shortenSignature(sig string) string {
	if len(sig) > 16 {
		return sig[:8] + "..." + sig[len(sig)-8:]
	}
	return sig
}

// FieldFilterCore wraps a zapcore.Core: it drops structured fields from console
// output and rewrites known messages into their friendly form.
type FieldFilterCore struct {
	core   zapcore.Core
	fields []zapcore.Field
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &FieldFilterCore{core: c.core, fields: merged}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(append([]zapcore.Field{}, c.fields...), fields...)

	cleanEntry := entry
	cleanEntry.Message = FormatMessage(entry.Message, all...)
	if entry.Level >= zapcore.WarnLevel {
		if reason := extractErrorField(all); reason != "" {
			cleanEntry.Message += ": " + reason
		}
	}
	return c.core.Write(cleanEntry, nil)
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}

func extractErrorField(fields []zapcore.Field) string {
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if err, ok := f.Interface.(error); ok && err != nil {
				return err.Error()
			}
		}
	}
	return ""
}
