package model

// NotificationLevel is the severity of a notification
type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelSuccess
	LevelWarning
	LevelNotice
)

// String returns the level name
func (l NotificationLevel) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelNotice:
		return "notice"
	default:
		return "info"
	}
}

// Notification is a user facing event emitted during a run
type Notification struct {
	Level   NotificationLevel
	Topic   string // e.g. changelog, inventory, version, release, git
	Message string
}

// String renders the notification as "[topic] message"
func (n Notification) String() string {
	if n.Topic == "" {
		return n.Message
	}
	return "[" + n.Topic + "] " + n.Message
}
