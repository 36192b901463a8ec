package logging

import (
	"io"
	"os"

	"github.com/op/go-logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/availproject/avail-indexer/config"
)

// Logger is the process-wide logger, ready to use before InitLogger with
// console output at INFO level.
var Logger = logging.MustGetLogger("avail-indexer")

var format = logging.MustStringFormatter(
	`%{time:2006-01-02T15:04:05.000} %{level:.4s} %{shortfile} %{message}`,
)

// InitLogger configures the process logger from the log section of the config.
func InitLogger(cfg *config.LogConfig) {
	backends := make([]logging.Backend, 0, 2)
	if cfg.UseConsoleLogger {
		backends = append(backends, logging.NewLogBackend(os.Stdout, "", 0))
	}
	if cfg.UseFileLogger {
		var writer io.Writer = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxFileSizeInMB,
			MaxBackups: cfg.MaxBackupsOfLogFiles,
			MaxAge:     cfg.MaxAgeToRetainLogFilesInDays,
			Compress:   cfg.Compress,
		}
		backends = append(backends, logging.NewLogBackend(writer, "", 0))
	}
	level, err := logging.LogLevel(cfg.Level)
	if err != nil {
		level = logging.INFO
	}
	formatted := logging.NewBackendFormatter(logging.MultiLogger(backends...), format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	Logger.SetBackend(leveled)
}
