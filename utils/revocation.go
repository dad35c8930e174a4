package utils

import (
	"context"
	"sync"
	"time"
)

// revokedEntry keeps expiration metadata for a session token.
type revokedEntry struct {
	expiresAt time.Time
}

var (
	revoked   = map[string]revokedEntry{}
	revokedMu sync.RWMutex
)

// RevokeSessionToken stores a token until its natural expiration so logout takes
// effect immediately. Redis is preferred; memory is the single-instance fallback.
func RevokeSessionToken(token string, expiresAt time.Time) {
	if rc := GetRedis(); rc != nil {
		ttl := time.Until(expiresAt)
		if ttl <= 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = rc.Set(ctx, "session:revoked:"+token, "1", ttl).Err()
		return
	}
	revokedMu.Lock()
	revoked[token] = revokedEntry{expiresAt: expiresAt}
	revokedMu.Unlock()
}

// IsSessionRevoked checks whether a token was revoked before natural expiration.
func IsSessionRevoked(token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, "session:revoked:"+token).Result()
		if err == nil {
			return n > 0
		}
		// Fail open on Redis errors to avoid locking everyone out.
		return false
	}

	revokedMu.RLock()
	entry, ok := revoked[token]
	revokedMu.RUnlock()
	if !ok {
		return false
	}

	if time.Now().After(entry.expiresAt) {
		revokedMu.Lock()
		delete(revoked, token)
		revokedMu.Unlock()
		return false
	}

	return true
}
