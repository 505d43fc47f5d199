package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// DebugLogFile is the name of the rotating debug log inside LogDir.
const DebugLogFile = "debug.log"

// SetupDebug points the global zerolog logger at a rotating debug.log when
// enabled, plus any extra writers. When disabled every event is dropped. The
// returned closer releases the log file.
func SetupDebug(enabled bool, writers ...io.Writer) (io.Closer, error) {
	if !enabled {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		zlog.Logger = zerolog.Nop()
		return nopCloser{}, nil
	}

	dir, err := LogDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, DebugLogFile),
		MaxSize:    1,
		MaxBackups: 2,
	}
	logWriters := append([]io.Writer{file}, writers...)

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	zlog.Logger = zlog.Output(io.MultiWriter(logWriters...)).
		With().Timestamp().Caller().Logger()

	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
