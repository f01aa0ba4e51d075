package testutil

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/pgg/classroom/core"
	"github.com/pgg/classroom/core/class"
)

// Logger records log entries in memory.
type Logger struct {
	mu      sync.Mutex
	entries []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %s", level, msg)
	for _, arg := range args {
		fmt.Fprintf(&buf, " %v", arg)
	}
	l.entries = append(l.entries, buf.String())
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

// Entries returns a copy of the recorded entries.
func (l *Logger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// NewValidator returns a validator with the core and class rules registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	class.InitValidators(validate, translator)
	return validate, translator
}

// NewClassService returns a class.Service over a fresh Registry holding classes.
func NewClassService(t *testing.T, classes ...class.ClassInfo) (class.Service, *class.Registry) {
	t.Helper()
	registry := class.NewRegistry()
	registry.Add(classes...)
	return class.NewService(registry, new(Logger)), registry
}

// SeededClassService returns a class.Service whose Registry was loaded with the default seed.
func SeededClassService(t *testing.T) (class.Service, *class.Registry) {
	t.Helper()
	svc, registry := NewClassService(t)
	svc.Load()
	return svc, registry
}
