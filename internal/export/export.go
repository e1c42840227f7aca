// Package export renders a conversation transcript as Markdown, HTML or JSON.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	app_errors "claude-chat/backend/internal/errors"
	"claude-chat/backend/internal/model"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the format names and the common file extensions.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", app_errors.ErrValidation, s)
	}
}

// Extension returns the file extension for downloads.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	default:
		return "md"
	}
}

// Render returns the document body and its content type.
func Render(conv *model.FullConversation, format Format) ([]byte, string, error) {
	switch format {
	case FormatMarkdown:
		return Markdown(conv), "text/markdown; charset=utf-8", nil
	case FormatHTML:
		body, err := HTML(conv)
		return body, "text/html; charset=utf-8", err
	case FormatJSON:
		body, err := json.MarshalIndent(conv, "", "  ")
		return body, "application/json", err
	default:
		return nil, "", fmt.Errorf("%w: unsupported export format %q", app_errors.ErrValidation, format)
	}
}

// Markdown renders the transcript with one section per message.
func Markdown(conv *model.FullConversation) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", conv.Title)
	fmt.Fprintf(&sb, "_Model: %s · Created: %s_\n\n", conv.Model, conv.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))

	for _, m := range conv.Messages {
		fmt.Fprintf(&sb, "## %s\n\n", roleHeading(m.Role))
		sb.WriteString(strings.TrimSpace(m.Content))
		sb.WriteString("\n\n")
		if m.StopReason == "cancelled" {
			sb.WriteString("_(response stopped early)_\n\n")
		}
	}
	return []byte(sb.String())
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts the Markdown transcript into a standalone page. Raw HTML inside
// messages is not passed through.
func HTML(conv *model.FullConversation) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert(Markdown(conv), &body); err != nil {
		return nil, fmt.Errorf("could not render markdown: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(conv.Title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

func roleHeading(r model.Role) string {
	switch r {
	case model.RoleUser:
		return "You"
	case model.RoleAssistant:
		return "Claude"
	case model.RoleSystem:
		return "System"
	default:
		return string(r)
	}
}
