package core

// Logger is any service that can record application events. Implementations
// may forward to an external error tracker in addition to the local log;
// a user.User passed in args identifies the affected account.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
