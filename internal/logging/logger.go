// README: Structured single-line JSON logger written to stdout.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service"`
	Action    string `json:"action"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Logger struct {
	service string
	mu      sync.Mutex
}

func New(service string) *Logger {
	if strings.TrimSpace(service) == "" {
		service = "vdel"
	}
	return &Logger{service: service}
}

func (l *Logger) emit(e entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := json.Marshal(e)
	if err != nil {
		// retry once without Details (the usual source of marshal failures)
		e.Details = nil
		if b, err = json.Marshal(e); err != nil {
			fmt.Fprintf(os.Stderr, "log marshal failed: %v\n", err)
			return
		}
	}
	fmt.Println(string(b))
}

func (l *Logger) Info(action, msg string, details any) {
	l.emit(entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     "INFO",
		Service:   l.service,
		Action:    action,
		Message:   msg,
		Details:   details,
	})
}

func (l *Logger) Error(action, msg string, err error, details any) {
	var errMsg string
	if err != nil {
		errMsg = err.Error()
	}
	l.emit(entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     "ERROR",
		Service:   l.service,
		Action:    action,
		Message:   msg,
		Details:   details,
		Error:     errMsg,
	})
}
