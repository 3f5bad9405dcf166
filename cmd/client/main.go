package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/panelglot/panelglot/pkg/client"
)

func main() {
	urlFlag := flag.String("url", "http://localhost:8080", "server url")
	tokenFlag := flag.String("token", "", "server token")

	flag.Parse()

	ctx := context.Background()

	options := []client.RequestOption{}

	if *tokenFlag != "" {
		options = append(options, client.WithToken(*tokenFlag))
	}

	client := client.New(*urlFlag, options...)

	console(ctx, client)
}

func console(ctx context.Context, c *client.Client) {
	reader := bufio.NewReader(os.Stdin)
	output := os.Stdout

LOOP:
	for {
		output.WriteString(">>> ")
		input, err := reader.ReadString('\n')

		if err != nil {
			return
		}

		args := strings.Fields(input)

		if len(args) == 0 {
			continue LOOP
		}

		switch strings.ToLower(args[0]) {
		case "open":
			if len(args) < 2 {
				output.WriteString("usage: open <file> [url]\n")
				continue LOOP
			}

			session, err := open(ctx, c, args[1:])

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			output.WriteString("opened " + session.ID + "\n")

		case "sessions":
			sessions, err := c.Sessions.List(ctx)

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			for _, s := range sessions {
				output.WriteString(fmt.Sprintf("%-36s  %-9s  %s\n", s.ID, s.State, s.URL))
			}

		case "focus":
			if len(args) < 2 {
				output.WriteString("usage: focus <session>\n")
				continue LOOP
			}

			id, err := resolve(ctx, c, args[1])

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			if _, err := c.Sessions.Focus(ctx, id); err != nil {
				output.WriteString(err.Error() + "\n")
			}

		case "minimize":
			if len(args) < 2 {
				output.WriteString("usage: minimize <session>\n")
				continue LOOP
			}

			id, err := resolve(ctx, c, args[1])

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			if _, err := c.Sessions.Minimize(ctx, id); err != nil {
				output.WriteString(err.Error() + "\n")
			}

		case "close":
			if len(args) < 2 {
				output.WriteString("usage: close <session>\n")
				continue LOOP
			}

			id, err := resolve(ctx, c, args[1])

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			if err := c.Sessions.Delete(ctx, id); err != nil {
				output.WriteString(err.Error() + "\n")
			}

		case "analyze":
			analysis, err := c.Analyses.New(ctx)

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			output.WriteString(analysis.Status + "\n")

		case "status":
			status, err := c.Analyses.Status(ctx)

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			output.WriteString(formatStatus(status) + "\n")

		case "overlays":
			if len(args) < 2 {
				output.WriteString("usage: overlays <session>\n")
				continue LOOP
			}

			id, err := resolve(ctx, c, args[1])

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			overlays, err := c.Overlays.List(ctx, id)

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			for _, o := range overlays {
				output.WriteString(formatOverlay(&o) + "\n")
			}

		case "watch":
			if len(args) < 2 {
				output.WriteString("usage: watch <session>\n")
				continue LOOP
			}

			id, err := resolve(ctx, c, args[1])

			if err != nil {
				output.WriteString(err.Error() + "\n")
				continue LOOP
			}

			watch(ctx, c, id)

		case "language":
			if len(args) < 2 {
				output.WriteString("usage: language <code>\n")
				continue LOOP
			}

			if err := updateSettings(ctx, c, func(s *client.Settings) {
				s.TargetLanguage = args[1]
			}); err != nil {
				output.WriteString(err.Error() + "\n")
			}

		case "credential":
			if len(args) < 2 {
				output.WriteString("usage: credential <key>\n")
				continue LOOP
			}

			if err := updateSettings(ctx, c, func(s *client.Settings) {
				s.Credential = args[1]
			}); err != nil {
				output.WriteString(err.Error() + "\n")
			}

		case "quit", "exit":
			return

		default:
			output.WriteString("unknown command\n")
		}
	}
}

func open(ctx context.Context, c *client.Client, args []string) (*client.Session, error) {
	path := args[0]

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	url := "https://localhost/" + filepath.Base(path)

	if len(args) > 1 {
		url = args[1]
	}

	request := client.CreateSessionRequest{
		URL: url,
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		request.Markdown = string(data)

	default:
		request.HTML = string(data)
	}

	return c.Sessions.Create(ctx, request)
}

// resolve expands a session reference, so a unique id prefix is enough.
func resolve(ctx context.Context, c *client.Client, ref string) (string, error) {
	sessions, err := c.Sessions.List(ctx)

	if err != nil {
		return "", err
	}

	var matches []string

	for _, s := range sessions {
		if s.ID == ref {
			return s.ID, nil
		}

		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s.ID)
		}
	}

	if len(matches) == 1 {
		return matches[0], nil
	}

	if len(matches) > 1 {
		return "", errors.New("ambiguous session: " + ref)
	}

	return "", errors.New("unknown session: " + ref)
}

func watch(ctx context.Context, c *client.Client, id string) {
	output := os.Stdout

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	for event, err := range c.Events.Stream(ctx, id) {
		if err != nil {
			output.WriteString(err.Error() + "\n")
			return
		}

		output.WriteString(formatEvent(event) + "\n")
	}
}

func updateSettings(ctx context.Context, c *client.Client, apply func(*client.Settings)) error {
	values, err := c.Settings.Get(ctx)

	if err != nil {
		return err
	}

	apply(values)

	_, err = c.Settings.Update(ctx, *values)
	return err
}

func formatStatus(status *client.Status) string {
	text := status.Code

	if status.Count > 0 {
		text += fmt.Sprintf(" (%d)", status.Count)
	}

	if status.Detail != "" {
		text += ": " + status.Detail
	}

	return text
}

func formatOverlay(o *client.Overlay) string {
	text := o.TranslatedText

	if text == "" {
		text = o.Detail
	}

	return fmt.Sprintf("%-20s  %-7s  %s", o.ImageID, o.Kind, text)
}

func formatEvent(event *client.Event) string {
	if event.Overlay != nil {
		return string(event.Type) + "  " + formatOverlay(event.Overlay)
	}

	return string(event.Type) + "  " + event.ImageID
}
