package domain

// Identity is the signing identity bound to a session. Both keys are
// hex-encoded; PublicKey is the 32-byte x-only form relays expect.
type Identity struct {
	SecretKey string `json:"secret_key"`
	PublicKey string `json:"public_key"`
}

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
