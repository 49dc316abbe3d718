// Package logging builds the logrus logger of the plugin from its log
// settings.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bedrock-gophers/magic/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing to stderr and, if a log file is configured, to
// a rotated log file. The returned closer closes the log file.
func New(conf config.LogConfig) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(strings.TrimSpace(conf.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	log := logrus.New()
	log.SetLevel(level)
	switch strings.ToLower(conf.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", conf.Format)
	}

	if conf.File == "" {
		log.SetOutput(os.Stderr)
		return log, nopCloser{}, nil
	}
	file := &lumberjack.Logger{
		Filename:   conf.File,
		MaxSize:    conf.MaxSizeMB,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAgeDays,
		Compress:   conf.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	return log, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
