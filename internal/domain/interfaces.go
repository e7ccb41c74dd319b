package domain

import "context"

// Signer produces signed, content-addressed events from a template.
type Signer interface {
	// Sign fills in PubKey, ID and Sig on ev. The other fields must be set
	// by the caller and are not modified.
	Sign(ev *Event) error
	// PublicKey returns the hex x-only public key of the identity.
	PublicKey() string
}

// RelaySession is one authenticated (or read-only) connection to a relay.
type RelaySession interface {
	// Request subscribes with the given label and filter, collects matching
	// events until the relay signals end-of-stored-events, and always closes
	// the subscription server-side before returning.
	Request(ctx context.Context, label string, filter Filter) ([]Event, error)
	// Publish submits a signed event and waits for the relay's acknowledgment.
	Publish(ctx context.Context, ev Event) error
	// WaitAuthenticated blocks until the challenge handshake completes, and
	// fails with ErrAuthRequired if the relay never challenges.
	WaitAuthenticated(ctx context.Context) error
	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// IdentityService creates, retrieves, and inspects the local identity.
type IdentityService interface {
	Init(passphrase, recoveryPhrase string) (Identity, Fingerprint, error)
	Load(passphrase string) (Identity, error)
	Fingerprint(passphrase string) (Fingerprint, error)
}

// IdentityStore persists the identity encrypted under a passphrase.
type IdentityStore interface {
	SaveIdentity(passphrase string, id Identity) error
	LoadIdentity(passphrase string) (Identity, error)
}

// GroupService runs the administrative group lifecycle flows.
type GroupService interface {
	Exists(ctx context.Context, groupID string) (bool, error)
	Create(ctx context.Context, name, about string, public bool) (CreateResult, error)
	Invite(ctx context.Context, groupID string) (JoinReference, error)
	Delete(ctx context.Context, groupID string) error
	List(ctx context.Context) ([]GroupRecord, error)
}

// CreateResult reports a group creation. InviteErr is set when the group was
// created but the dependent invite mint for a private group failed; the group
// still exists in that case.
type CreateResult struct {
	GroupID   string
	Invite    *JoinReference
	InviteErr error
}
