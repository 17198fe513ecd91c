package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type logFlags struct {
	format *string
	level  *string
}

func addLogFlags(fs *flag.FlagSet) logFlags {
	return logFlags{
		format: fs.String("log-format", "text", "log output format: text|json"),
		level:  fs.String("log-level", "info", "log level: debug|info|warn|error"),
	}
}

func quietLogging() logFlags {
	format, level := "text", "error"
	return logFlags{format: &format, level: &level}
}

func (f logFlags) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(*f.level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", *f.level)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(*f.format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q: want text|json", *f.format)
	}
}
