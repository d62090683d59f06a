package engine

import (
	"fmt"

	"frontline-server/pkg/api"
	"frontline-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AddLog добавляет запись в боевой журнал сессии и дублирует ее в logrus.
func (s *Session) AddLog(text, logType string) {
	s.logSeq++
	if len(s.Logs) >= maxPendingLogs {
		s.Logs = s.Logs[1:]
	}
	s.Logs = append(s.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%s_%d", s.ID, s.logSeq),
		Text:      text,
		Type:      logType,
		Timestamp: s.clock.Now(),
	})
	logger.Log.WithFields(logrus.Fields{
		"session":   s.ID,
		"component": "battle_log",
		"log_type":  logType,
		"sim_ms":    s.clock.Now(),
	}).Info(text)
}
