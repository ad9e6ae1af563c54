// File: internal/common/context_keys.go
package common

// Keys for values stored in the gin context by middleware.
const (
	ContextKeyUserID    = "userID"
	ContextKeyUserEmail = "userEmail"
	ContextKeyUserRole  = "userRole"
	ContextKeyTokenJTI  = "tokenJTI"
	ContextKeyTokenExp  = "tokenExp"
	ContextKeyRequestID = "requestID"
)
