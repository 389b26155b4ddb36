package bot

import (
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Embed colors.
const (
	ColorBlue   = 0x3498DB
	ColorGreen  = 0x2ECC71
	ColorRed    = 0xE74C3C
	ColorYellow = 0xF1C40F
	ColorPurple = 0x9B59B6
	ColorOrange = 0xE67E22
)

// EmbedField is one labelled value in an Embed.
// Consecutive inline fields share a line.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a structured rich message. Telegram has no embed primitive, so it
// is rendered as HTML, with the color shown as a colored square before the
// title and the thumbnail shown as a link preview.
type Embed struct {
	Title        string
	Description  string
	Color        int
	Fields       []EmbedField
	ThumbnailURL string
	Footer       string
}

// colorMarkers maps the supported embed colors to square emoji.
var colorMarkers = []struct {
	color  int
	marker string
}{
	{ColorBlue, "🟦"},
	{ColorGreen, "🟩"},
	{ColorRed, "🟥"},
	{ColorYellow, "🟨"},
	{ColorPurple, "🟪"},
	{ColorOrange, "🟧"},
}

// colorMarker returns the square closest to color, or "" when color is zero.
func colorMarker(color int) string {
	if color == 0 {
		return ""
	}

	best := colorMarkers[0].marker
	bestDist := -1
	for _, c := range colorMarkers {
		if d := colorDistance(color, c.color); bestDist == -1 || d < bestDist {
			best, bestDist = c.marker, d
		}
	}
	return best
}

// colorDistance is the squared RGB distance between two 0xRRGGBB colors.
func colorDistance(a, b int) int {
	dr := (a>>16)&0xFF - (b>>16)&0xFF
	dg := (a>>8)&0xFF - (b>>8)&0xFF
	db := a&0xFF - b&0xFF
	return dr*dr + dg*dg + db*db
}

// HTML renders the embed as Telegram HTML. All text is escaped.
func (e Embed) HTML() string {
	var sb strings.Builder

	if e.Title != "" {
		if marker := colorMarker(e.Color); marker != "" {
			sb.WriteString(marker)
			sb.WriteString(" ")
		}
		sb.WriteString("<b>")
		sb.WriteString(escapeHTML(e.Title))
		sb.WriteString("</b>\n")
	}

	if e.Description != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(escapeHTML(e.Description))
		sb.WriteString("\n")
	}

	if len(e.Fields) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		writeFields(&sb, e.Fields)
	}

	if e.Footer != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("<i>")
		sb.WriteString(escapeHTML(e.Footer))
		sb.WriteString("</i>")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// writeFields writes one line per field, joining runs of inline fields.
func writeFields(sb *strings.Builder, fields []EmbedField) {
	for i, f := range fields {
		if i > 0 {
			if f.Inline && fields[i-1].Inline {
				sb.WriteString("  •  ")
			} else {
				sb.WriteString("\n")
			}
		}
		sb.WriteString("<b>")
		sb.WriteString(escapeHTML(f.Name))
		sb.WriteString(":</b> ")
		sb.WriteString(escapeHTML(f.Value))
	}
	sb.WriteString("\n")
}

// linkPreview shows the thumbnail as a small preview, or disables previews
// when there is none.
func (e Embed) linkPreview() *models.LinkPreviewOptions {
	if e.ThumbnailURL == "" {
		return &models.LinkPreviewOptions{IsDisabled: ptr(true)}
	}
	return &models.LinkPreviewOptions{
		URL:              ptr(e.ThumbnailURL),
		PreferSmallMedia: ptr(true),
		ShowAboveText:    ptr(false),
	}
}

// SendMessageParams builds the message that carries the embed to chatID.
func (e Embed) SendMessageParams(chatID int64) *bot.SendMessageParams {
	return &bot.SendMessageParams{
		ChatID:             chatID,
		Text:               e.HTML(),
		ParseMode:          models.ParseModeHTML,
		LinkPreviewOptions: e.linkPreview(),
	}
}

func ptr[T any](v T) *T {
	return &v
}
