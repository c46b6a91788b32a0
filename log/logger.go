// Copyright (c) 2024 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/conditional-tokens/ctdeploy
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides the logger shared by all ctdeploy packages.
//
// There is a single underlying logger. Loggers returned by this package are
// views on it with extra fields, so InitLogger takes effect on all of them,
// including those created before it was called.
package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultLevel is the level in effect until InitLogger is called.
const DefaultLevel = "warn"

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = newLogger()
)

// Logger is an alias of logrus.FieldLogger, the interface used for logging.
type Logger = logrus.FieldLogger

// Fields is a collection of fields attached to a log entry.
type Fields = logrus.Fields

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetOutput(os.Stderr)
	l.SetFormatter(&markerFormatter{logrus.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        "2006-01-02 15:04:05 Z0700",
		DisableLevelTruncation: true,
	}})
	return l
}

// InitLogger sets the level and the output of the logger. An empty logFilePath
// logs to stderr, as stdout carries the command output.
//
// It can be called again to reconfigure the logger; a previously opened log
// file is then closed. On error, the previous configuration stays in effect.
func InitLogger(levelStr, logFilePath string) error {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return errors.WithStack(err)
	}
	var out io.Writer = os.Stderr
	var f *os.File
	if logFilePath != "" {
		f, err = os.OpenFile(filepath.Clean(logFilePath), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
		if err != nil {
			return errors.WithStack(err)
		}
		out = f
	}

	mu.Lock()
	defer mu.Unlock()
	logger.SetLevel(level)
	logger.SetOutput(out)
	if logFile != nil {
		logFile.Close() // nolint: errcheck, gosec
	}
	logFile = f
	return nil
}

// NewLoggerWithField returns a logger that adds the given field to each entry.
func NewLoggerWithField(key string, value interface{}) Logger {
	return logger.WithField(key, value)
}

// NewDerivedLoggerWithField returns a logger that inherits the fields of
// parentLogger and adds the given field to each entry.
//
// Panics if parentLogger is nil.
func NewDerivedLoggerWithField(parentLogger Logger, key string, value interface{}) Logger {
	if parentLogger == nil {
		panic("parent logger should not be nil")
	}
	return parentLogger.WithField(key, value)
}

// markerFormatter prefixes each text entry with a marker, to set log lines
// apart from the output of the tools on the same terminal.
type markerFormatter struct {
	logrus.TextFormatter
}

// Format implements logrus.Formatter.
func (f *markerFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	text, err := f.TextFormatter.Format(entry)
	return append([]byte("▶ "), text...), err
}
