// Package commands defines the groupctl CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init           Derive the signing identity from a recovery phrase
//   - fingerprint    Print the identity fingerprint
//   - create         Create a chat group (private groups also mint an invite)
//   - list           List groups known to the relay
//   - invite         Mint an invite code for a group
//   - remove         Delete a group
//
// # Implementation
//
// The root command loads environment configuration and builds a dependency
// graph (store, identity service) before any subcommand runs. Commands that
// talk to the relay dial one session per invocation and close it on every
// path, so no process exit leaves a dangling connection or subscription.
package commands
