package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

func NewLogger(cfg Log) (*logrus.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := formatter(cfg.Format)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	log.SetFormatter(format)
	return log, nil
}

func parseLevel(level string) (logrus.Level, error) {
	if level == "" {
		return logrus.InfoLevel, nil
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return 0, errors.Wrap(err, "invalid log level")
	}
	return parsed, nil
}

func formatter(format string) (logrus.Formatter, error) {
	switch format {
	case "", "text":
		return &logrus.TextFormatter{FullTimestamp: true}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, errors.Newf("log format must be text or json, got %q", format)
	}
}
