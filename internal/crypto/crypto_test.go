package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"groupctl/internal/crypto"
	"groupctl/internal/domain"
)

func TestDeriveIdentity_Deterministic(t *testing.T) {
	a, err := crypto.DeriveIdentity("orbit lumber violet crane")
	require.NoError(t, err)
	b, err := crypto.DeriveIdentity("orbit lumber violet crane")
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a.PublicKey, 64)
	require.Len(t, a.SecretKey, 64)

	other, err := crypto.DeriveIdentity("orbit lumber violet dove")
	require.NoError(t, err)
	require.NotEqual(t, a.PublicKey, other.PublicKey)
}

func TestDeriveIdentity_NormalizesPhrase(t *testing.T) {
	a, err := crypto.DeriveIdentity("  Orbit   LUMBER violet crane ")
	require.NoError(t, err)
	b, err := crypto.DeriveIdentity("orbit lumber violet crane")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDeriveIdentity_EmptyPhrase(t *testing.T) {
	_, err := crypto.DeriveIdentity("   ")
	require.ErrorIs(t, err, crypto.ErrEmptyPhrase)
}

func TestSignAndVerify(t *testing.T) {
	id, err := crypto.DeriveIdentity("orbit lumber violet crane")
	require.NoError(t, err)
	signer, err := crypto.NewSigner(id)
	require.NoError(t, err)
	require.Equal(t, id.PublicKey, signer.PublicKey())

	ev := domain.Event{
		Kind:      domain.KindGroupCreate,
		CreatedAt: 1700000000,
		Tags:      []domain.Tag{{"h", "teamchat"}, {"name", "Team Chat"}},
		Content:   "",
	}
	require.NoError(t, signer.Sign(&ev))
	require.Equal(t, id.PublicKey, ev.PubKey)
	require.Len(t, ev.ID, 64)
	require.NoError(t, crypto.VerifyEvent(&ev))

	tampered := ev
	tampered.Content = "changed"
	require.Error(t, crypto.VerifyEvent(&tampered))
}

func TestEventID_DerivedFromContents(t *testing.T) {
	ev := domain.Event{
		PubKey:    "ab",
		Kind:      domain.KindGroupMetadata,
		CreatedAt: 42,
		Tags:      []domain.Tag{{"d", "teamchat"}},
		Content:   `{"name":"Team Chat"}`,
	}
	first, err := crypto.EventID(&ev)
	require.NoError(t, err)
	again, err := crypto.EventID(&ev)
	require.NoError(t, err)
	require.Equal(t, first, again)

	ev.Content = `{"name":"Renamed"}`
	changed, err := crypto.EventID(&ev)
	require.NoError(t, err)
	require.NotEqual(t, first, changed)
}

func TestNewSigner_RejectsBadKey(t *testing.T) {
	_, err := crypto.NewSigner(domain.Identity{SecretKey: "not-hex"})
	require.Error(t, err)
	_, err = crypto.NewSigner(domain.Identity{SecretKey: "abcd"})
	require.Error(t, err)
}
