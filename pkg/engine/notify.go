package engine

// Notifier shows a transient message to the user. Failing to show it is never an error.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// BatchNotice is shown after a successful batch run when notices are enabled.
const BatchNotice = "Updated all auto-property values in vault"
