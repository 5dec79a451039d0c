package tasks

// Board columns.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

var validStatuses = map[string]bool{
	StatusTodo:       true,
	StatusInProgress: true,
	StatusDone:       true,
}

// Task is one card on the board. IDs are opaque strings: the board client
// mints its own (short random tags), and the server only fills in a uuid
// when a card arrives without one.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"desc,omitempty"`
	Status      string `json:"status"`
}
