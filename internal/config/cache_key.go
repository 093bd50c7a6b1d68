package config

import (
	"fmt"
	"strings"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SuperAdminWindowKey returns the key mirroring an open super-admin session window
func (r *CacheKeyStruct) SuperAdminWindowKey(sessionID string) string {
	return fmt.Sprintf("superadmin:window:%s", sessionID)
}

// SuperAdminWindowPattern matches every mirrored session window
func (r *CacheKeyStruct) SuperAdminWindowPattern() string {
	return "superadmin:window:*"
}

// StudentOTPKey returns the key holding a student's password reset code
func (r *CacheKeyStruct) StudentOTPKey(email string) string {
	return fmt.Sprintf("otp:%s", strings.ToLower(email))
}

// StudentOTPAttemptsKey returns the key counting wrong guesses at a reset code
func (r *CacheKeyStruct) StudentOTPAttemptsKey(email string) string {
	return fmt.Sprintf("otp:attempts:%s", strings.ToLower(email))
}

// RateLimitKey returns the fixed-window counter key for a client in a scope
func (r *CacheKeyStruct) RateLimitKey(scope, clientIP string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, clientIP, window)
}

// AuditChannel returns the Redis PubSub channel carrying new audit entries
func (r *CacheKeyStruct) AuditChannel() string {
	return "audit:events"
}

var CacheKey = NewCacheKeyStruct()
