// Package logger implements the main application logger.
package logger

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// levelWriter routes each log entry to a writer by its level: debug and
// info to the info writer, warn to the warn writer, error and above to the
// error writer, trace to the trace writer.
type levelWriter struct {
	io.Writer
	errorW io.Writer
	infoW  io.Writer
	traceW io.Writer
	warnW  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *levelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l == zerolog.Disabled {
		return 0, nil
	}

	var w io.Writer

	switch {
	case l == zerolog.TraceLevel:
		w = lw.traceW
	case l == zerolog.WarnLevel:
		w = lw.warnW
	case l > zerolog.WarnLevel:
		w = lw.errorW
	default:
		w = lw.infoW
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init configures the global zerolog logger from cfg. At least one of the
// console or file outputs should be enabled, otherwise logging is silent.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "loglevel %s is not supported", cfg.LogLevel)
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	var stack bool

	// trace level also enables stack marshalling for wrapped errors
	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		stack = true
	}

	zerolog.SetGlobalLevel(logLevel)

	ph := NewPrometheusHook(cfg.ServiceName)

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, newConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		writers = append(writers, newRollingFileWriter(cfg))
	}

	mw := zerolog.MultiLevelWriter(writers...)

	logContext := zerolog.New(mw).Hook(ph).With().Timestamp()

	switch {
	case cfg.ReportCaller && stack:
		log.Logger = logContext.Stack().Logger()
	case cfg.ReportCaller:
		log.Logger = logContext.Caller().Logger()
	default:
		log.Logger = logContext.Logger()
	}

	return nil
}

// rollingFile builds one lumberjack writer under the configured log path.
func rollingFile(dir string, rf RollingFile) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, rf.File),
		MaxSize:    rf.MaxSize,
		MaxAge:     rf.MaxAge,
		MaxBackups: rf.MaxBackups,
	}
}

// newRollingFileWriter builds the level-split file writer.
func newRollingFileWriter(cfg Log) io.Writer {
	if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil { //nolint: mnd
		log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

		return nil
	}

	return &levelWriter{
		errorW: rollingFile(cfg.File.Path, cfg.File.Error),
		infoW:  rollingFile(cfg.File.Path, cfg.File.Info),
		traceW: rollingFile(cfg.File.Path, cfg.File.Trace),
		warnW:  rollingFile(cfg.File.Path, cfg.File.Warn),
	}
}

// consoleFor wraps out in zerolog's console format when pretty is set.
func consoleFor(out io.Writer, pretty bool) io.Writer {
	if !pretty {
		return out
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    false,
		TimeFormat: zerolog.TimeFieldFormat,
	}
}

// newConsoleWriter builds the level-split console writer: info and debug go
// to stdout, everything else to stderr.
func newConsoleWriter(cfg Log) io.Writer {
	pretty := cfg.Console.UseConsoleWriter

	return &levelWriter{
		errorW: consoleFor(os.Stderr, pretty),
		infoW:  consoleFor(os.Stdout, pretty),
		traceW: consoleFor(os.Stderr, pretty),
		warnW:  consoleFor(os.Stderr, pretty),
	}
}
