package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of rotated files to keep
	MaxBackups int
}

// FileLogger implements Logger with append-only file output and size-based
// rotation.
type FileLogger struct {
	config FileLoggerConfig
	mu     *sync.Mutex
	file   **os.File
	size   *int64
	fields Fields
}

// NewFileLogger opens (or creates) the log file and returns a logger
// appending to it.
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}
	size := info.Size()

	return &FileLogger{
		config: config,
		mu:     &sync.Mutex{},
		file:   &file,
		size:   &size,
	}, nil
}

func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger sharing the same file and attaching the given
// fields to every entry.
func (l *FileLogger) WithFields(fields Fields) Logger {
	return &FileLogger{
		config: l.config,
		mu:     l.mu,
		file:   l.file,
		size:   l.size,
		fields: mergeFields(l.fields, fields),
	}
}

// Close closes the underlying file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if *l.file != nil {
		err := (*l.file).Close()
		*l.file = nil
		return err
	}
	return nil
}

func (l *FileLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.config.Level {
		return
	}

	all := mergeFields(l.fields, fields)

	var line []byte
	if l.config.Format == FormatJSON {
		line = formatJSON(level, msg, err, all)
	} else {
		line = formatText(level, msg, err, all)
	}
	if line == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if *l.file == nil {
		return
	}
	if l.config.MaxSize > 0 && *l.size >= l.config.MaxSize {
		l.rotate()
	}

	n, _ := (*l.file).Write(line)
	*l.size += int64(n)
}

// rotate shifts existing backups up by one and starts a fresh file.
// Called with the lock held.
func (l *FileLogger) rotate() {
	(*l.file).Close()

	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		os.Rename(
			fmt.Sprintf("%s.%d", l.config.Path, i),
			fmt.Sprintf("%s.%d", l.config.Path, i+1),
		)
	}
	os.Rename(l.config.Path, l.config.Path+".1")
	if l.config.MaxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", l.config.Path, l.config.MaxBackups+1))
	}

	file, err := os.OpenFile(l.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		*l.file = nil
		return
	}
	*l.file = file
	*l.size = 0
}
