// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger writing to out (stderr when nil). Debug mode
// logs human-readable text at debug level; otherwise JSON at info level.
func NewLogger(debug bool, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}
	log := logrus.New()
	log.SetOutput(out)
	if debug {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
		return log
	}
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log
}

// OrStandardLogger returns log, or the logrus standard logger when log is nil.
func OrStandardLogger(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
