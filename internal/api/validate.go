// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest document the backend accepts.
const MaxUploadSize = 10 * 1024 * 1024 // 10MB

// allowedExtensions lists the document types the backend can parse.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Upload validation errors. These fire before any bytes leave the
// machine, so they are distinct from the backend error kinds.
var (
	// ErrFileTooLarge indicates the file exceeds MaxUploadSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFile indicates the file extension is not accepted.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ValidateUpload checks that the file at path can be sent for analysis.
// It verifies the extension against the backend's allow-list and the
// size against MaxUploadSize.
func ValidateUpload(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %s (accepted: pdf, docx, doc, txt, jpg, jpeg, png)", ErrUnsupportedFile, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnsupportedFile, path)
	}
	if info.Size() > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, info.Size(), MaxUploadSize)
	}
	return nil
}
