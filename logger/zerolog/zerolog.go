// Package zerolog provides the rs/zerolog implementation of core.Logger.
package zerolog

import (
	"os"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
)

// New creates a console logger with the given minimum level. When colored
// is false the level tags are still printed, just without ANSI colors.
func New(level string, colored bool) (*Adapter, error) {
	logMode, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(logMode)

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		NoColor:    !colored,
		TimeFormat: "2006-01-02 15:04:05",
	}

	if colored {
		output.FormatLevel = formatLevel
		output.FormatMessage = formatMessage
		output.FormatTimestamp = formatTimestamp
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	return NewAdapter(&logger), nil
}

func formatLevel(i any) string {
	levelStr, ok := i.(string)
	if !ok {
		return "[UNK]"
	}

	switch levelStr {
	case zerolog.LevelTraceValue:
		return term.Cyanf("[TRC]")
	case zerolog.LevelDebugValue:
		return term.Cyanf("[DBG]")
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WAR]")
	case zerolog.LevelErrorValue:
		return term.Redf("[ERR]")
	case zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return term.Redf("[FTL]")
	default:
		return term.Whitef("[UNK]")
	}
}

func formatMessage(i any) string {
	msg, ok := i.(string)
	if !ok || len(msg) == 0 {
		return ">"
	}
	return term.Whitef("> %s", msg)
}

func formatTimestamp(i any) string {
	strTime, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}

	ts, err := time.ParseInLocation(time.RFC3339, strings.TrimSpace(strTime), time.Local)
	if err == nil {
		strTime = ts.In(time.Local).Format("2006-01-02 15:04:05")
	}

	return term.Cyanf("[%s]", strTime)
}
