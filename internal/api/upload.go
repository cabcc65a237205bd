// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the typed HTTP client for the Kindling backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxPhotoSize caps the profile photo upload at 5 MB, matching the
// backend's limit.
const MaxPhotoSize = 5 * 1024 * 1024

// allowedPhotoExts lists the image extensions the backend accepts.
var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadPhoto sends a profile photo as multipart form data and returns the
// URL the backend stored it under.
func (c *Client) UploadPhoto(ctx context.Context, photoPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(photoPath))
	if !allowedPhotoExts[ext] {
		return "", fmt.Errorf("unsupported photo type %q (want jpg, png, or webp)", ext)
	}

	info, err := os.Stat(photoPath)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if info.Size() > MaxPhotoSize {
		return "", fmt.Errorf("photo is %d bytes, limit is %d", info.Size(), MaxPhotoSize)
	}

	f, err := os.Open(photoPath)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", filepath.Base(photoPath))
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	token, ok := c.creds.Token()
	if !ok {
		return "", ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/profile/photo", &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", c.handleUnauthorized(data, true)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		_ = json.Unmarshal(data, &envelope)
		return "", &APIError{Status: resp.StatusCode, Message: envelope.text()}
	}

	var out uploadEnvelope
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return out.URL, nil
}
