package domain

// BotIdentity is the bot's own account on the chat platform
type BotIdentity struct {
	UserID      string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Metadata is the public description served for agent discovery
type Metadata struct {
	BotIdentity
	Platform string        `json:"platform"`
	Version  string        `json:"version"`
	Commands []CommandSpec `json:"commands"`
}
