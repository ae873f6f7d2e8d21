package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ToolKeyOpts lists everything that influences the output of a tool run.
type ToolKeyOpts struct {
	Command     []string `json:"command,omitempty"`
	NetworkHash string   `json:"network_hash"`
	MaxSize     int      `json:"max_size"`
	Target      string   `json:"target"`
	Exclude     []string `json:"exclude"`
}

// ToolKey returns the cache key of a tool run.
func ToolKey(tool string, opts ToolKeyOpts) string {
	return hashKey("tool", tool, opts)
}
