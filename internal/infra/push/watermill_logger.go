package push

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
)

// WatermillLogger направляет логи watermill в логгер сервиса
type WatermillLogger struct {
	logger Logger
	fields watermill.LogFields
}

// NewWatermillLogger создает адаптер
func NewWatermillLogger(logger Logger) *WatermillLogger {
	return &WatermillLogger{logger: logger}
}

func (l *WatermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error("watermill: %s: %v%s", msg, err, l.format(fields))
}

func (l *WatermillLogger) Info(msg string, fields watermill.LogFields) {
	l.logger.Info("watermill: %s%s", msg, l.format(fields))
}

func (l *WatermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug("watermill: %s%s", msg, l.format(fields))
}

// Trace слишком шумный, пишем его как debug
func (l *WatermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.logger.Debug("watermill: %s%s", msg, l.format(fields))
}

func (l *WatermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillLogger{logger: l.logger, fields: l.fields.Add(fields)}
}

func (l *WatermillLogger) format(fields watermill.LogFields) string {
	all := l.fields.Add(fields)
	if len(all) == 0 {
		return ""
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, all[k])
	}
	return b.String()
}
