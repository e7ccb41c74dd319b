// Package crypto exposes the minimal primitives used by groupctl.
//
// Contents
//
//   - Deterministic secp256k1 identity derivation from a recovery phrase
//     (DeriveIdentity)
//   - Schnorr event signing and content-addressed event identifiers
//     (Signer, EventID, VerifyEvent)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Callers should treat derived secrets as sensitive; intermediate seed
// material is wiped after use to reduce its lifetime in memory.
package crypto
