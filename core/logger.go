package core

// Logger is any leveled logging service.
// Implementations may inspect args for well-known types (eg. a user.User to
// attribute an error to a person).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
