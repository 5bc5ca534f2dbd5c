package main

import (
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pragyanai/tracker/internal/config"
)

// opLogger appends one timestamped line per successful mutation to a
// rotating log file next to the database. Mutations only; reads are not
// logged, and neither are credentials.
var opLogger *lumberjack.Logger

func opLog(format string, args ...interface{}) {
	if opLogger == nil {
		logPath := config.GetString("log")
		if logPath == "" {
			logPath = filepath.Join(filepath.Dir(dbPath), "operations.log")
		}
		opLogger = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
	}
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(opLogger, "[%s] %s: %s\n", timestamp, actor, msg)
}
