// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/nyaya-tui/internal/model"
)

// ExportMarkdown renders a conversation as Markdown with role labels,
// timestamps, and citation lists. Used by `nyaya sessions show --export`.
func ExportMarkdown(conv *model.Conversation) string {
	var sb strings.Builder
	sb.WriteString("# " + conv.GetTitle() + "\n\n")
	sb.WriteString("Session: " + conv.ID + "\n")
	sb.WriteString("Created: " + conv.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range conv.Messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "** (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if len(msg.Sources) > 0 {
			sb.WriteString("\nSources:\n\n")
			for i, src := range msg.Sources {
				sb.WriteString(strconv.Itoa(i+1) + ". " + src.Title)
				if src.Court != "" {
					sb.WriteString(" (" + src.Court + ")")
				}
				if src.URL != "" {
					sb.WriteString(" <" + src.URL + ">")
				}
				sb.WriteString("\n")
			}
		}
		for _, att := range msg.Attachments {
			sb.WriteString("\nAttachment: " + att.Name + "\n")
		}
		sb.WriteString("\n---\n\n")
	}
	return sb.String()
}

// ExportJSON renders a conversation as pretty-printed JSON.
func ExportJSON(conv *model.Conversation) ([]byte, error) {
	return json.MarshalIndent(conv, "", "  ")
}
