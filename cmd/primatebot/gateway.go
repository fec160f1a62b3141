package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"primatebot/internal/bot"
)

// consoleGateway renders bot replies on stdout. It stands in for the
// chat-platform adapter so every command can be driven from the CLI.
type consoleGateway struct{}

func newConsoleGateway() *consoleGateway {
	return &consoleGateway{}
}

func (g *consoleGateway) SendMessage(_ context.Context, _ int64, content string) error {
	fmt.Println(content)
	return nil
}

func (g *consoleGateway) SendEmbed(_ context.Context, _ int64, embed bot.Embed) error {
	if embed.Title != "" {
		fmt.Println(embed.Title)
		fmt.Println(strings.Repeat("=", len([]rune(embed.Title))))
	}
	if embed.Description != "" {
		fmt.Println(embed.Description)
	}
	for _, f := range embed.Fields {
		fmt.Printf("%s: %s\n", f.Name, f.Value)
	}
	if embed.Footer != "" {
		fmt.Printf("(%s)\n", embed.Footer)
	}
	return nil
}

func (g *consoleGateway) SendImage(_ context.Context, _ int64, filename string, png []byte, caption string) error {
	if err := os.WriteFile(filename, png, 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	if caption != "" {
		fmt.Println(caption)
	}
	fmt.Printf("Chart written to %s\n", filename)
	return nil
}
