package realtime

// StreamWorkset carries every event about a session's working set.
const StreamWorkset = "workset"

// Event names published on StreamWorkset.
const (
	EventIDsAdded   = "ids.added"
	EventIDRemoved  = "ids.removed"
	EventIDsCleared = "ids.cleared"
	EventToast      = "toast"
	EventPong       = "pong"
)

// Message is the JSON frame written to sockets.
type Message struct {
	Stream string `json:"stream"`
	Event  string `json:"event"`
	Data   any    `json:"data,omitempty"`
}

// ToastLevel selects the toast styling in the page.
type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

// Toast is a transient notification with a short title and a full message.
type Toast struct {
	Level ToastLevel `json:"level"`
	Short string     `json:"short"`
	Full  string     `json:"full"`
}

// Publisher is the sink the workspace writes events to.
type Publisher interface {
	Publish(sessionID string, message Message)
}

// Discard is a Publisher that drops everything.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(string, Message) {}
