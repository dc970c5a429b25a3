package model

// Command is one stored snippet. Cmd is the text copied to the clipboard.
type Command struct {
	ID          int64
	Tags        string
	Description string
	Cmd         string
}
