package fronius

import (
	"io"
	"log"

	"github.com/sirupsen/logrus"
)

// modbusLogger routes the frame logging of the things-go client to logrus.
type modbusLogger struct {
	l *logrus.Entry
}

func newModbusLogger() *modbusLogger {
	return &modbusLogger{l: logrus.WithField("component", "modbus")}
}

func (m *modbusLogger) Errorf(format string, v ...interface{}) {
	m.l.Errorf(format, v...)
}

func (m *modbusLogger) Debugf(format string, v ...interface{}) {
	m.l.Debugf(format, v...)
}

// newStdModbusLogger returns a log.Logger for the goburrow handler. The
// returned closer releases the pipe feeding logrus.
func newStdModbusLogger() (*log.Logger, io.Closer) {
	w := logrus.WithField("component", "modbus").WriterLevel(logrus.DebugLevel)
	return log.New(w, "", 0), w
}
