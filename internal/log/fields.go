package log

// FieldComponent keys the component attribute attached to every log
// line.
const FieldComponent = "component"

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentStore    = "store"
	ComponentSettings = "settings"
	ComponentWorker   = "worker"
	ComponentNotifier = "notifier"
)
