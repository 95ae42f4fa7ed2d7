package remote

// Inbound command types.
const (
	CommandView  = "view"
	CommandStep  = "step"
	CommandState = "state"
	CommandUse   = "use"
)

// Outbound message types.
const (
	MessageAck                = "ack"
	MessageError              = "error"
	MessageState              = "state"
	MessageTransitionStarted  = "transition_started"
	MessageTransitionComplete = "transition_complete"
)

// Command is a request from a remote UI, e.g. {"type":"view","index":2},
// {"type":"view","name":"SouthWest"}, {"type":"step","direction":-1} or {"type":"use","item":"key"}.
type Command struct {
	Type      string `json:"type"`
	Index     *int   `json:"index,omitempty"`
	Name      string `json:"name,omitempty"`
	Direction int    `json:"direction,omitempty"`
	Item      string `json:"item,omitempty"`
}

// Reply answers a Command, or pushes state to a freshly connected client.
type Reply struct {
	Type     string   `json:"type"`
	Command  string   `json:"command,omitempty"`
	Error    string   `json:"error,omitempty"`
	View     int      `json:"view"`
	ViewName string   `json:"view_name,omitempty"`
	Busy     bool     `json:"busy"`
	Used     *bool    `json:"used,omitempty"`
	Items    []string `json:"items,omitempty"`
}

// Event is broadcast to every client when a transition starts or completes.
type Event struct {
	Type     string  `json:"type"`
	From     int     `json:"from"`
	To       int     `json:"to"`
	Duration float32 `json:"duration"`
}
