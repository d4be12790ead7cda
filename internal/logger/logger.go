package logger

import (
	"io"
	"log"
	"os"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
)

// Init wires the level loggers. Levels below the given one are
// discarded; tests run with "error" to keep output quiet.
func Init(level string) {
	infoOut, debugOut := io.Writer(os.Stdout), io.Writer(os.Stdout)
	switch level {
	case "error":
		infoOut, debugOut = io.Discard, io.Discard
	case "info", "":
		debugOut = io.Discard
	}

	InfoLogger = log.New(infoOut, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	DebugLogger = log.New(debugOut, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
}

func Info(msg string) {
	InfoLogger.Println(msg)
}

func Infof(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}

func Error(msg string) {
	ErrorLogger.Println(msg)
}

func Errorf(format string, v ...interface{}) {
	ErrorLogger.Printf(format, v...)
}

func Debug(msg string) {
	DebugLogger.Println(msg)
}

func Debugf(format string, v ...interface{}) {
	DebugLogger.Printf(format, v...)
}

func Fatal(msg string) {
	ErrorLogger.Fatal(msg)
}

func Fatalf(format string, v ...interface{}) {
	ErrorLogger.Fatalf(format, v...)
}

// Component scopes log lines to one subsystem so services and background
// sweeps can be grepped per concern.
type Component struct {
	name string
}

func With(name string) Component { return Component{name: name} }

func (c Component) Infof(format string, v ...interface{}) {
	InfoLogger.Printf("["+c.name+"] "+format, v...)
}

func (c Component) Errorf(format string, v ...interface{}) {
	ErrorLogger.Printf("["+c.name+"] "+format, v...)
}

func (c Component) Debugf(format string, v ...interface{}) {
	DebugLogger.Printf("["+c.name+"] "+format, v...)
}
