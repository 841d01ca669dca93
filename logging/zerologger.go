package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Shared structured-field keys so log lines stay greppable across packages.
const (
	HandNumKey    string = "handNum"
	SeatNoKey     string = "seatNo"
	PlayerIDKey   string = "playerID"
	PlayerNameKey string = "playerName"
	PhaseKey      string = "phase"
	ActionKey     string = "action"
	AmountKey     string = "amount"
	PotKey        string = "pot"
)

func getEnableColorLog() string {
	v := os.Getenv("COLORIZE_LOG")
	if v == "" {
		// Use colorized logging by default.
		return "true"
	}
	return v
}

func IsColorLoggingEnabled() bool {
	return getEnableColorLog() == "1" || strings.ToLower(getEnableColorLog()) == "true"
}

func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	noColor := !IsColorLoggingEnabled()
	output := zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
	return &logger
}
