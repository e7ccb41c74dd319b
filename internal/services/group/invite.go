package group

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// inviteAlphabet keeps codes easy to read aloud and paste; 36^8 keys make
	// casual guessing impractical without pretending this is a secret.
	inviteAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	inviteLength   = 8
)

// newInviteCode draws an invite code uniformly from the fixed alphabet.
func newInviteCode() (string, error) {
	max := big.NewInt(int64(len(inviteAlphabet)))
	code := make([]byte, inviteLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		code[i] = inviteAlphabet[n.Int64()]
	}
	return string(code), nil
}
