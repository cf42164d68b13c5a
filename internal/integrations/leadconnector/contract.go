package leadconnector

import "time"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics учёт вызовов удалённого сервиса
type Metrics interface {
	ObserveUpstreamCall(operation, outcome string, elapsed time.Duration)
}
