package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JustAdi10/Booking/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDirPerm = 0o755
)

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

// SetFileOutput tees the global logger into a size-rotated file when SERVER_LOG_FILE_PATH is set.
// The returned closer is nil when no file is configured.
func SetFileOutput(config *config.Config) io.Closer {
	fileCfg := config.Server.LogFile
	if fileCfg.Path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(fileCfg.Path), logDirPerm); err != nil {
		log.Error().Err(err).Str("path", fileCfg.Path).Msg("Failed to create log directory, file output disabled.")

		return nil
	}

	fileWriter := &lumberjack.Logger{
		Filename:   fileCfg.Path,
		MaxSize:    fileCfg.MaxSizeMB,
		MaxBackups: fileCfg.MaxBackups,
		MaxAge:     fileCfg.MaxAgeDays,
		Compress:   fileCfg.Compress,
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(zerolog.MultiLevelWriter(console, fileWriter))
	log.Info().Str("path", fileCfg.Path).Msg("File log output enabled.")

	return fileWriter
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
