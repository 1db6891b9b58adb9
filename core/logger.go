package core

// Logger is any leveled logger the app can report through.
// Extra args may carry errors or structured context maps; implementations
// decide what to do with them.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// EmailService is any service that can send emails.
type EmailService interface {
	// SendMessages sends messages concurrently.
	SendMessages(messages ...*EmailMessage)
}

// EmailMessage is a simple text/plain message.
type EmailMessage struct {
	To      []string
	Subject string
	Body    string
}
