package domain

// Message is an inbound chat message as seen by the dispatcher
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	Text      string
	// ThreadRoot is the root post of the thread the message belongs to,
	// for platforms that allow a single level of threading. Empty otherwise.
	ThreadRoot string
}

// Command is a slash command invocation
type Command struct {
	Name      string
	ID        string
	ChannelID string
	UserID    string
}

// Reply is an outbound message threaded to a previous event
type Reply struct {
	ChannelID  string
	ReplyTo    string
	ThreadRoot string
	Text       string
}

// CommandSpec describes a slash command for platform registration
type CommandSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
