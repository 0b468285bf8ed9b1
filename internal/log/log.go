package log

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const envDevelopment = "development"

// InitLogger builds the process logger. Every call returns a fresh logger so
// each service owns its writer and can close it on shutdown.
func InitLogger(filepath string, env string) (zerolog.Logger, io.Closer) {
	zerolog.DurationFieldUnit = time.Microsecond
	zerolog.ErrorFieldName = "error"
	zerolog.ErrorStackFieldName = "stack-trace"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.TimestampFieldName = "timestamp"

	logLevel := zerolog.InfoLevel
	if env == envDevelopment {
		logLevel = zerolog.TraceLevel
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath,
		MaxSize:    100,
		MaxBackups: 5,
		Compress:   true,
	}
	output := zerolog.MultiLevelWriter(os.Stdout, fileWriter)

	logger := zerolog.New(output).
		Level(logLevel).
		Hook(TraceHook()).
		With().
		Timestamp().
		Caller().
		Stack().
		Int("pid", os.Getpid()).
		Logger()

	logger.Info().
		Str(KeyTag, "InitLogger").
		Str(KeyProcess, "InitLogger").
		Msg("finish initiating logging")

	return logger, fileWriter
}
