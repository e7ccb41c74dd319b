package identity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"groupctl/internal/services/identity"
	"groupctl/internal/store"
)

const strongPassphrase = "Correct.Horse7battery"

func TestInit_WeakPassphraseRejected(t *testing.T) {
	svc := identity.New(store.NewFileStore(t.TempDir()))

	for _, pass := range []string{"", "short1!A", "alllowercase1!", "NOLOWERCASE1!", "NoSymbolsHere1"} {
		_, _, err := svc.Init(pass, "orbit lumber violet crane")
		require.ErrorIs(t, err, identity.ErrWeakPassphrase, "passphrase %q", pass)
	}
}

func TestInit_RoundTrip(t *testing.T) {
	svc := identity.New(store.NewFileStore(t.TempDir()))

	id, fp, err := svc.Init(strongPassphrase, "orbit lumber violet crane")
	require.NoError(t, err)
	require.NotEmpty(t, fp)

	loaded, err := svc.Load(strongPassphrase)
	require.NoError(t, err)
	require.Equal(t, id, loaded)

	fp2, err := svc.Fingerprint(strongPassphrase)
	require.NoError(t, err)
	require.Equal(t, fp, fp2)
}

func TestInit_SamePhraseSameFingerprint(t *testing.T) {
	a := identity.New(store.NewFileStore(t.TempDir()))
	b := identity.New(store.NewFileStore(t.TempDir()))

	_, fpA, err := a.Init(strongPassphrase, "orbit lumber violet crane")
	require.NoError(t, err)
	_, fpB, err := b.Init(strongPassphrase, "orbit lumber violet crane")
	require.NoError(t, err)
	require.Equal(t, fpA, fpB)
}
