// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat sessions with the legal research backend.
//
// # Key Types
//
//   - Conversation: Append-only container for a chat session
//   - Message: Single message with role, content, citations, and attachments
//   - Source: Legal citation (case, statute, article) attached to an answer
//   - Role: Message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("What is Section 420 IPC?")
package model
