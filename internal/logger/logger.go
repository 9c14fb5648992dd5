// Package logger is the thin leveled facade over the standard log
// package shared by every back-office component.
package logger

import (
	"fmt"
	"log"
)

type Logger struct {
	out *log.Logger
}

func New(out *log.Logger) *Logger {
	return &Logger{out: out}
}

func (l *Logger) LogErrorf(format string, v ...any) {
	l.out.Printf("[Error]: %s\n", fmt.Sprintf(format, v...))
}

func (l *Logger) LogInfo(format string, v ...any) {
	l.out.Printf("[Info]: %s\n", fmt.Sprintf(format, v...))
}
