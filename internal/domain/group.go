package domain

import (
	"fmt"
	"strings"
	"time"
)

// maxGroupIDLen caps normalized group identifiers.
const maxGroupIDLen = 32

// GroupRecord is a read-only view of a group reconstructed from a metadata
// event. It is never persisted locally.
type GroupRecord struct {
	ID        string
	Name      string
	About     string
	Public    bool
	CreatedAt int64
}

// JoinReference is the shareable result of minting an invite: the group
// identifier plus the invite code. Combining the pair into a link is left to
// the presentation layer.
type JoinReference struct {
	GroupID string
	Code    string
}

// NormalizeGroupID derives a group identifier from a display name: lowercase,
// non-alphanumerics stripped, truncated to maxGroupIDLen. A name with no
// representable characters yields a time-derived fallback so creation never
// fails purely from an unrepresentable name.
func NormalizeGroupID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	id := b.String()
	if len(id) > maxGroupIDLen {
		id = id[:maxGroupIDLen]
	}
	if id == "" {
		id = fmt.Sprintf("group%d", time.Now().Unix())
	}
	return id
}
