/*
   Copyright 2024 Vertree Contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package log implements the vertree/log wrapper that formats the logs in
// our custom format as well as logging levels.
package log

import (
	"log"
	"os"

	"github.com/hashicorp/logutils"
)

// Log levels constants
const (
	SILENT = "silent"
	ERROR  = "error"
	INFO   = "info"
	DEBUG  = "debug"
)

// Private interface for the std variable.
type logger interface {
	Error(v ...interface{})
	Errorf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	GetLogger() *log.Logger
}

func getFilter(lv string) *logutils.LevelFilter {

	mapLevel := map[string]logutils.LogLevel{
		ERROR: "ERROR",
		INFO:  "INFO",
		DEBUG: "DEBUG",
	}

	return &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: mapLevel[lv],
		Writer:   os.Stdout,
	}
}

const stdFlags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile | log.LUTC

// The default logger is a log.INFO level one.
var std logger = newInfo(getFilter(INFO), "Vertree: ", stdFlags)

// To allow mocking we require a switchable variable.
var osExit = os.Exit

// Below is the public interface for the logger, a proxy for the
// switchable implementation defined in std.

// Error is the public log function to write to stdout and stop execution.
func Error(v ...interface{}) {
	std.Error(v...)
}

// Errorf is the public log function with format to write to stdout and
// stop execution.
func Errorf(format string, v ...interface{}) {
	std.Errorf(format, v...)
}

// Fatal is an alias of Error kept for readability at call sites.
func Fatal(v ...interface{}) {
	std.Error(v...)
}

// Fatalf is an alias of Errorf kept for readability at call sites.
func Fatalf(format string, v ...interface{}) {
	std.Errorf(format, v...)
}

// Info is the public log function to write informational messages.
func Info(v ...interface{}) {
	std.Info(v...)
}

// Infof is the public log function with format to write informational
// messages.
func Infof(format string, v ...interface{}) {
	std.Infof(format, v...)
}

// Debug is the public log function to write debug messages.
func Debug(v ...interface{}) {
	std.Debug(v...)
}

// Debugf is the public log function with format to write debug messages.
func Debugf(format string, v ...interface{}) {
	std.Debugf(format, v...)
}

// GetLogger returns the underlying stdlib logger of the current level
// implementation.
func GetLogger() *log.Logger {
	return std.GetLogger()
}

// SetLogger switches the level implementation used by the package
// functions. The namespace ends up as the logger prefix.
func SetLogger(namespace, lv string) {

	prefix := namespace + ": "

	switch lv {
	case SILENT:
		std = newSilent()
	case ERROR:
		std = newError(getFilter(ERROR), prefix, stdFlags)
	case INFO:
		std = newInfo(getFilter(INFO), prefix, stdFlags)
	case DEBUG:
		std = newDebug(getFilter(DEBUG), prefix, stdFlags)
	default:
		Errorf("Incorrect level of verbosity (%v) use %s, %s, %s or %s",
			lv, SILENT, ERROR, INFO, DEBUG)
	}
}
