package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"golang.org/x/crypto/pbkdf2"

	"groupctl/internal/domain"
	"groupctl/internal/util/memzero"
)

const (
	// recoverySalt matches the BIP39 seed derivation salt so phrases behave
	// like ordinary wallet mnemonics.
	recoverySalt = "mnemonic"
	seedRounds   = 2048
	seedBytes    = 64
)

// ErrEmptyPhrase is returned when the recovery phrase has no words.
var ErrEmptyPhrase = errors.New("recovery phrase is empty")

// DeriveIdentity deterministically derives a secp256k1 signing identity from
// a recovery phrase. The phrase is case- and whitespace-normalized first, so
// "Alpha  Bravo" and "alpha bravo" yield the same identity.
func DeriveIdentity(recoveryPhrase string) (domain.Identity, error) {
	words := strings.Fields(strings.ToLower(recoveryPhrase))
	if len(words) == 0 {
		return domain.Identity{}, ErrEmptyPhrase
	}
	normalized := strings.Join(words, " ")

	seed := pbkdf2.Key([]byte(normalized), []byte(recoverySalt), seedRounds, seedBytes, sha512.New)
	defer memzero.Zero(seed)

	sum := sha256.Sum256(seed)
	defer memzero.Zero(sum[:])

	priv, pub := btcec.PrivKeyFromBytes(sum[:])
	defer priv.Zero()

	return domain.Identity{
		SecretKey: hex.EncodeToString(priv.Serialize()),
		PublicKey: hex.EncodeToString(schnorr.SerializePubKey(pub)),
	}, nil
}
