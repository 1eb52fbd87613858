package core

// Logger is any service that can record application events.
// expected args: error | map[string]interface{} | auth.Identity (reported as the person)
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
