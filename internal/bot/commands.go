package bot

import "strings"

// Command is one of the bot's slash commands.
type Command string

const (
	// CommandStart shows the help text.
	CommandStart Command = "start"
	// CommandAdd prompts for new media.
	CommandAdd Command = "add"
	// CommandReset discards collected media and comment, keeping the contact.
	CommandReset Command = "reset"
)

// ParseCommand recognizes a slash command in a text message. Commands are a
// single word, matched case-insensitively, optionally suffixed with
// @botUsername for addressed commands in the group style ("/add@somebot").
// A mention of a different bot, extra arguments, or an unknown name all mean
// the text is not a command for us; that is not an error, the caller falls
// through to state-specific handling.
func ParseCommand(text, botUsername string) (Command, bool) {
	fields := strings.Fields(text)
	if len(fields) != 1 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		mention := name[at+1:]
		name = name[:at]
		if !strings.EqualFold(mention, botUsername) {
			return "", false
		}
	}

	switch strings.ToLower(name) {
	case "start":
		return CommandStart, true
	case "add":
		return CommandAdd, true
	case "reset":
		return CommandReset, true
	}
	return "", false
}
