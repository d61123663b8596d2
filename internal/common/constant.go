// Package common contains shared constants and sentinel errors used across
// the SARK backend.
package common

// AuthorizationHeaderName carries the session token as "Bearer <jwt>".
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is read from and echoed on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"

// Conversation senders.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)
