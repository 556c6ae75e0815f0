package logger

import (
	"io"
	"log"
	"os"
)

var Log *log.Logger

// Init opens (or creates) the log file and points the package logger at it.
// Terminal output stays reserved for the interactive prompt; everything else
// goes here.
func Init(logFilePath string) error {
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}

	Log = log.New(file, "", log.LstdFlags)
	Log.Println("Logger initialized.")
	return nil
}

// InitDiscard wires the logger to a sink. Used by tests so package code can
// log unconditionally.
func InitDiscard() {
	Log = log.New(io.Discard, "", 0)
}
