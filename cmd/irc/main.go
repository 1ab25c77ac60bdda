package main

import (
	"context"
	"io"
	"strings"

	"github.com/whyrusleeping/hellabot"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/api"
	"kgeyst.com/vista/pkg/vista/infrastructure/tts"
)

const maxReplyLines = 12

// Channel messages starting with the bot's name ("vista, what is https://example.com/pill.jpg") are answered in
// the channel.
func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	agentName := config.GetStringOrDefault("agentName", "Vista")
	roomName := config.GetStringOrDefault("roomName", "VistaRoom")
	serverName := config.GetStringOrDefault("serverName", "irc.euirc.net:6667")
	logger := api.NewLogger(config)
	vista, err := api.NewAPI(context.Background(), config, logger, nil, tts.NewConsoleSpeaker(io.Discard))
	if err != nil {
		return err
	}
	defer func() {
		_ = vista.Close()
	}()
	ircBot, err := hbot.NewBot(serverName, agentName)
	if err != nil {
		return err
	}
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return m.Command == "PRIVMSG" && strings.HasPrefix(strings.ToLower(m.Content), strings.ToLower(agentName))
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			what := strings.TrimSpace(m.Content[len(agentName):])
			if len(m.To) == 0 || m.To[0] != '#' {
				return false
			}
			what = strings.TrimSpace(strings.TrimLeft(what, ",:"))
			go func() {
				response, err := vista.Answer(context.Background(), what)
				if err != nil {
					logger.Error("failed to answer", err, "from", m.From, "what", what)
					response = "Sorry, I encountered an error processing the image"
				}
				for _, line := range replyLines(response) {
					b.Reply(m, m.From+" "+line)
				}
			}()
			return true
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Channels = []string{"#" + roomName}
	ircBot.Run()
	return nil
}

// replyLines IRC messages can't span lines.
func replyLines(response string) []string {
	var lines []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxReplyLines {
			break
		}
	}
	return lines
}
