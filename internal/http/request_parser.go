// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for decoding and validating request data.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrMalformedBody = errors.New("request body is not valid JSON")
)

type (
	// LoginRequest is the body of POST /api/auth/login.
	LoginRequest struct {
		ID       string `json:"id"`
		Password string `json:"password"`
	}

	// ChangePasswordRequest is the body of POST /api/auth/change-password.
	ChangePasswordRequest struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}

	// ReleaseRequest is the body of POST /api/vesting/release.
	ReleaseRequest struct {
		Contract string `json:"contract"`
	}
)

// DecodeJSONBody reads at most maxBodyBytes from r and decodes them into dst.
// Unknown fields are ignored.
func DecodeJSONBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedBody, maxBodyBytes)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return ErrEmptyBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

// ParseChainID reads the optional chainId query parameter. It accepts
// decimal and 0x-prefixed hex, the two forms wallets report.
func ParseChainID(query url.Values) (int64, bool, error) {
	v := strings.TrimSpace(query.Get("chainId"))
	if v == "" {
		return 0, false, nil
	}
	base := 10
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		v, base = v[2:], 16
	}
	id, err := strconv.ParseInt(v, base, 64)
	if err != nil || id <= 0 {
		return 0, false, fmt.Errorf("invalid chainId %q", query.Get("chainId"))
	}
	return id, true, nil
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
