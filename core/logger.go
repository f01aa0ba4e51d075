package core

// Logger is the application logger.
// args may hold errors and Fields; implementations decide how to report them.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Fields is structured context attached to a log entry.
type Fields map[string]interface{}
