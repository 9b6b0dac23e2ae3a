// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatewarden Contributors

// Package provisioning talks to the external user-provisioning system that
// owns user identities. Gatewarden only ever asks it to create one.
package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/gatewarden/gatewarden/internal/auth"
)

// usernameAlreadyUsedCode is the error code the provisioning system returns
// when the requested username is taken.
const usernameAlreadyUsedCode = "USERNAME_ALREADY_USED"

// DefaultTimeout bounds a provisioning request when none is configured.
const DefaultTimeout = 10 * time.Second

// Client implements auth.ProvisioningClient over the provisioning system's
// HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the provisioning API at baseURL. timeout
// bounds each request; zero or negative falls back to DefaultTimeout.
// There is no retry: a failed creation is reported to the caller, and the
// idempotency key sent with each request makes a caller-level retry safe.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, oops.Code("PROVISIONING_INVALID_CONFIG").Errorf("base URL is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type createUserRequest struct {
	Username string `json:"username"`
}

type createUserResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type errorResponse struct {
	Code string `json:"code"`
}

// CreateUser requests creation of a remote identity for username.
//
// Every outcome terminates in one of the sentinel errors: a recognized
// "username already used" response maps to auth.ErrUsernameTaken, any other
// non-2xx response or unparsable body maps to auth.ErrProvisioningInternal,
// and a transport-level failure (no response, timeout, cancellation) maps to
// auth.ErrProvisioningUnavailable.
func (c *Client) CreateUser(ctx context.Context, username string) (*auth.Identity, error) {
	body, err := json.Marshal(createUserRequest{Username: username})
	if err != nil {
		return nil, oops.Code("PROVISIONING_ENCODE_FAILED").
			With("operation", "marshal request body").
			Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return nil, oops.Code("PROVISIONING_REQUEST_FAILED").
			With("operation", "build request").
			Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oops.Code("PROVISIONING_UNAVAILABLE").
			With("operation", "create user").
			With("cause", err.Error()).
			Wrap(auth.ErrProvisioningUnavailable)
	}
	defer resp.Body.Close() //nolint:errcheck // Read side only

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil &&
			errBody.Code == usernameAlreadyUsedCode {
			return nil, oops.Code("PROVISIONING_USERNAME_TAKEN").
				With("username", username).
				Wrap(auth.ErrUsernameTaken)
		}
		return nil, oops.Code("PROVISIONING_INTERNAL").
			With("status", resp.StatusCode).
			Wrap(auth.ErrProvisioningInternal)
	}

	var created createUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, oops.Code("PROVISIONING_INTERNAL").
			With("operation", "decode response body").
			Wrap(auth.ErrProvisioningInternal)
	}
	if created.UserID == "" {
		return nil, oops.Code("PROVISIONING_INTERNAL").
			With("operation", "validate response body").
			Wrap(auth.ErrProvisioningInternal)
	}

	return &auth.Identity{
		UserID:   created.UserID,
		Username: created.Username,
	}, nil
}

// Compile-time interface check.
var _ auth.ProvisioningClient = (*Client)(nil)
