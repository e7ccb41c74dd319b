// Package group implements the administrative group lifecycle flows on top
// of a relay session.
//
// Operations
//
//   - Exists    probe for a group's metadata event
//   - Create    normalized-id creation with an idempotent pre-check; private
//     groups mint an invite as a dependent follow-up
//   - Invite    mint a shareable invite code for a group
//   - Delete    submit a delete event, surfacing relay rejections verbatim
//   - List      reconstruct group records from stored metadata events
//
// Each operation runs within the session's per-correlation deadline; none of
// them retries, and write operations require the session to have completed
// the relay's authentication handshake.
package group
