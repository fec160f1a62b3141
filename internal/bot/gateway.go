// Package bot implements the chat-facing command layer: it generates
// scores, records them, and renders replies. The concrete chat
// transport stays behind the Gateway interface so command logic can be
// tested without a live connection.
package bot

import "context"

// Embed is a rich reply with a title and optional fields.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
}

// EmbedField is one labelled value inside an Embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Gateway sends replies to the chat platform.
type Gateway interface {
	SendMessage(ctx context.Context, channelID int64, content string) error
	SendEmbed(ctx context.Context, channelID int64, embed Embed) error
	SendImage(ctx context.Context, channelID int64, filename string, png []byte, caption string) error
}

// Embed accent colors.
const (
	colorAnalysis = 0x8B4513 // jungle brown
	colorDuel     = 0xDDD128 // banana yellow
	colorRanking  = 0x2E8B57 // canopy green
	colorError    = 0xCC3333
)
