package domain

import (
	"strings"

	"kgeyst.com/vista/pkg/common"
)

type CommandKind int

const (
	// CommandKindNone the utterance is unrelated to the assistant.
	CommandKindNone = CommandKind(iota)
	// CommandKindExit the user wants the assistant to stop.
	CommandKindExit
	// CommandKindCapture the user said the trigger keyword.
	CommandKindCapture
)

// Command what the user asked for in a single utterance.
type Command struct {
	Kind CommandKind
	// Request is what followed the trigger keyword ("read the prescription"); empty if nothing did.
	Request string
}

// ParseCommand interprets a recognized utterance. Exit keywords are checked before the trigger keyword, and both
// are plain substring checks, so "click stop" exits. The request is the text after the first occurrence of the
// trigger keyword with separators such as "click: ..." or "click - ..." removed. The request keeps its original
// case where possible, since it may carry a URL.
func ParseCommand(text, triggerKeyword string, exitKeywords []string) Command {
	text = strings.TrimSpace(text)
	loweredText := strings.ToLower(text)
	if loweredText == "" {
		return Command{Kind: CommandKindNone}
	}
	if len(loweredText) != len(text) {
		text = loweredText // byte offsets wouldn't match otherwise
	}
	if common.ContainsAnySubstring(loweredText, exitKeywords) {
		return Command{Kind: CommandKindExit}
	}
	triggerKeyword = strings.ToLower(triggerKeyword)
	if triggerKeyword == "" {
		return Command{Kind: CommandKindNone}
	}
	index := strings.Index(loweredText, triggerKeyword)
	if index == -1 {
		return Command{Kind: CommandKindNone}
	}
	request := strings.TrimSpace(text[index+len(triggerKeyword):])
	request = strings.TrimLeft(request, ":")
	request = strings.TrimLeft(request, "-")
	return Command{
		Kind:    CommandKindCapture,
		Request: strings.TrimSpace(request),
	}
}
