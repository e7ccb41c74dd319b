package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"groupctl/internal/domain"
)

// EventID computes the content-addressed identifier of an event: the SHA-256
// of the canonical serialization array. Tags must be non-nil so the array
// serializes as [] rather than null.
func EventID(ev *domain.Event) (string, error) {
	tags := ev.Tags
	if tags == nil {
		tags = []domain.Tag{}
	}
	canonical, err := json.Marshal([]any{0, ev.PubKey, ev.CreatedAt, ev.Kind, tags, ev.Content})
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Signer signs events with a secp256k1 key held in memory.
type Signer struct {
	priv *btcec.PrivateKey
	pub  string
}

// NewSigner builds a Signer from a derived identity.
func NewSigner(id domain.Identity) (*Signer, error) {
	raw, err := hex.DecodeString(id.SecretKey)
	if err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("invalid secret key")
	}
	priv, pub := btcec.PrivKeyFromBytes(raw)
	return &Signer{
		priv: priv,
		pub:  hex.EncodeToString(schnorr.SerializePubKey(pub)),
	}, nil
}

// PublicKey returns the hex x-only public key.
func (s *Signer) PublicKey() string { return s.pub }

// Sign sets PubKey, ID and Sig on ev. The remaining fields are left untouched.
func (s *Signer) Sign(ev *domain.Event) error {
	ev.PubKey = s.pub
	id, err := EventID(ev)
	if err != nil {
		return err
	}
	idBytes, err := hex.DecodeString(id)
	if err != nil {
		return err
	}
	sig, err := schnorr.Sign(s.priv, idBytes)
	if err != nil {
		return fmt.Errorf("sign event: %w", err)
	}
	ev.ID = id
	ev.Sig = hex.EncodeToString(sig.Serialize())
	return nil
}

// VerifyEvent checks that ev's identifier matches its contents and that the
// signature is valid for the embedded public key.
func VerifyEvent(ev *domain.Event) error {
	id, err := EventID(ev)
	if err != nil {
		return err
	}
	if id != ev.ID {
		return fmt.Errorf("event id mismatch")
	}
	pubRaw, err := hex.DecodeString(ev.PubKey)
	if err != nil {
		return fmt.Errorf("invalid pubkey: %w", err)
	}
	pub, err := schnorr.ParsePubKey(pubRaw)
	if err != nil {
		return fmt.Errorf("invalid pubkey: %w", err)
	}
	sigRaw, err := hex.DecodeString(ev.Sig)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	sig, err := schnorr.ParseSignature(sigRaw)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	idBytes, _ := hex.DecodeString(id)
	if !sig.Verify(idBytes, pub) {
		return fmt.Errorf("signature verification failed")
	}
	return nil
}

// Compile-time assertion that Signer implements domain.Signer.
var _ domain.Signer = (*Signer)(nil)
