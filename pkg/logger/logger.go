package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - глобальный логгер сервера, утилит и тестов.
var Log *logrus.Logger

// Init создает логгер в stdout. LOG_LEVEL (по умолчанию info) и
// LOG_FORMAT (json|text) задают начальные настройки.
func Init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(textFormatter())

	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure применяет уровень и формат из файла конфигурации.
// Пустые значения оставляют текущие настройки.
func Configure(level, format string) {
	if Log == nil {
		Init()
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			Log.SetLevel(lvl)
		} else {
			Log.WithField("level", level).Warn("Unknown log level, keeping current")
		}
	}
	switch strings.ToLower(format) {
	case "json":
		Log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		Log.SetFormatter(textFormatter())
	}
}

func textFormatter() *logrus.TextFormatter {
	return &logrus.TextFormatter{FullTimestamp: true, ForceColors: true}
}
