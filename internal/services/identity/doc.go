// Package identity manages derivation, encryption and loading of the local
// signing identity.
//
// It enforces passphrase policy, derives the secp256k1 key pair
// deterministically from a recovery phrase, and persists it via the
// domain.IdentityStore.
package identity
