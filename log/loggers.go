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

package log

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
)

const calldepth = 3

// errorLogger only traces errors, and stops execution afterwards.
type errorLogger struct {
	log.Logger
}

func newError(out io.Writer, prefix string, flag int) *errorLogger {
	var l errorLogger
	l.SetOutput(out)
	l.SetPrefix(prefix)
	l.SetFlags(flag)
	return &l
}

func (l *errorLogger) Error(v ...interface{}) {
	_ = l.Output(calldepth, "[ERROR] "+fmt.Sprint(v...))
	osExit(1)
}

func (l *errorLogger) Errorf(format string, v ...interface{}) {
	_ = l.Output(calldepth, "[ERROR] "+fmt.Sprintf(format, v...))
	osExit(1)
}

func (l *errorLogger) Info(v ...interface{})                  {}
func (l *errorLogger) Infof(format string, v ...interface{})  {}
func (l *errorLogger) Debug(v ...interface{})                 {}
func (l *errorLogger) Debugf(format string, v ...interface{}) {}
func (l *errorLogger) GetLogger() *log.Logger                 { return &l.Logger }

// infoLogger traces informational messages and errors.
type infoLogger struct {
	errorLogger
}

func newInfo(out io.Writer, prefix string, flag int) *infoLogger {
	var l infoLogger
	l.SetOutput(out)
	l.SetPrefix(prefix)
	l.SetFlags(flag)
	return &l
}

func (l *infoLogger) Info(v ...interface{}) {
	_ = l.Output(calldepth, "[INFO] "+fmt.Sprint(v...))
}

func (l *infoLogger) Infof(format string, v ...interface{}) {
	_ = l.Output(calldepth, "[INFO] "+fmt.Sprintf(format, v...))
}

// debugLogger traces everything.
type debugLogger struct {
	infoLogger
}

func newDebug(out io.Writer, prefix string, flag int) *debugLogger {
	var l debugLogger
	l.SetOutput(out)
	l.SetPrefix(prefix)
	l.SetFlags(flag)
	return &l
}

func (l *debugLogger) Debug(v ...interface{}) {
	_ = l.Output(calldepth, "[DEBUG] "+fmt.Sprint(v...))
}

func (l *debugLogger) Debugf(format string, v ...interface{}) {
	_ = l.Output(calldepth, "[DEBUG] "+fmt.Sprintf(format, v...))
}

// silentLogger discards everything but still aborts on errors.
type silentLogger struct {
	errorLogger
}

func newSilent() *silentLogger {
	var l silentLogger
	l.SetOutput(ioutil.Discard)
	return &l
}

func (l *silentLogger) Error(v ...interface{}) {
	osExit(1)
}

func (l *silentLogger) Errorf(format string, v ...interface{}) {
	osExit(1)
}
