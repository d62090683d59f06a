package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestConfigure(t *testing.T) {
	Init()

	Configure("debug", "json")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	_, isJSON := Log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	Configure("nonsense", "")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel(), "unknown level keeps the previous one")
	_, isJSON = Log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON, "empty format keeps the previous formatter")

	Configure("warn", "text")
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
	_, isText := Log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

func TestInitFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")
	Init()

	assert.Equal(t, logrus.ErrorLevel, Log.GetLevel())
	_, isJSON := Log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	Init()
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
