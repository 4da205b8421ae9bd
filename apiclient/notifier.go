package apiclient

import "github.com/rs/zerolog/log"

// Notifier is the presentation surface for transient errors (a toast in a
// UI, a coloured line in the CLI).
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) {
	f(message)
}

// LogNotifier writes notifications to the global logger.
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	log.Warn().Msg(message)
}
