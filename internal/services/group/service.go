package group

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"groupctl/internal/domain"
)

// Service runs group administration flows over one relay session.
type Service struct {
	sess   domain.RelaySession
	signer domain.Signer // nil for read-only sessions
}

// New constructs the service. A nil signer restricts it to Exists and List.
func New(sess domain.RelaySession, signer domain.Signer) *Service {
	return &Service{sess: sess, signer: signer}
}

// Exists reports whether a group with the given identifier has a metadata
// event on the relay.
func (s *Service) Exists(ctx context.Context, groupID string) (bool, error) {
	events, err := s.sess.Request(ctx, "exists-"+uuid.NewString(), domain.Filter{
		Kinds: []int{domain.KindGroupMetadata},
		DTags: []string{groupID},
	})
	if err != nil {
		return false, err
	}
	return len(events) > 0, nil
}

// Create derives the group identifier from name and submits a create event.
// An existing identifier fails with ErrGroupAlreadyExists before anything is
// sent. For private groups an invite is minted as a follow-up; if that mint
// fails the create still stands and the result carries the invite error.
func (s *Service) Create(ctx context.Context, name, about string, public bool) (domain.CreateResult, error) {
	res := domain.CreateResult{GroupID: domain.NormalizeGroupID(name)}

	if err := s.requireAuth(ctx); err != nil {
		return res, err
	}

	exists, err := s.Exists(ctx, res.GroupID)
	if err != nil {
		return res, err
	}
	if exists {
		return res, fmt.Errorf("%w: %q", domain.ErrGroupAlreadyExists, res.GroupID)
	}

	ev := domain.Event{
		Kind:      domain.KindGroupCreate,
		CreatedAt: time.Now().Unix(),
		Tags: []domain.Tag{
			{"h", res.GroupID},
			{"name", name},
			{"about", about},
			{"public", fmt.Sprintf("%t", public)},
		},
	}
	if err := s.signer.Sign(&ev); err != nil {
		return res, err
	}
	if err := s.sess.Publish(ctx, ev); err != nil {
		return res, err
	}

	if !public {
		ref, err := s.Invite(ctx, res.GroupID)
		if err != nil {
			// The group is a valid standalone resource; no rollback.
			res.InviteErr = err
		} else {
			res.Invite = &ref
		}
	}
	return res, nil
}

// Invite mints a random invite code for the group and returns the join
// reference. The code is a shareable capability token, not key material.
func (s *Service) Invite(ctx context.Context, groupID string) (domain.JoinReference, error) {
	if err := s.requireAuth(ctx); err != nil {
		return domain.JoinReference{}, err
	}
	code, err := newInviteCode()
	if err != nil {
		return domain.JoinReference{}, err
	}
	ev := domain.Event{
		Kind:      domain.KindGroupCreateInvite,
		CreatedAt: time.Now().Unix(),
		Tags: []domain.Tag{
			{"h", groupID},
			{"code", code},
		},
	}
	if err := s.signer.Sign(&ev); err != nil {
		return domain.JoinReference{}, err
	}
	if err := s.sess.Publish(ctx, ev); err != nil {
		return domain.JoinReference{}, err
	}
	return domain.JoinReference{GroupID: groupID, Code: code}, nil
}

// Delete submits a delete event for the group. There is no pre-existence
// check; deleting an unknown group surfaces whatever the relay answers.
func (s *Service) Delete(ctx context.Context, groupID string) error {
	if err := s.requireAuth(ctx); err != nil {
		return err
	}
	ev := domain.Event{
		Kind:      domain.KindGroupDelete,
		CreatedAt: time.Now().Unix(),
		Tags:      []domain.Tag{{"h", groupID}},
	}
	if err := s.signer.Sign(&ev); err != nil {
		return err
	}
	return s.sess.Publish(ctx, ev)
}

// List reconstructs a record for every stored group metadata event.
func (s *Service) List(ctx context.Context) ([]domain.GroupRecord, error) {
	events, err := s.sess.Request(ctx, "list-"+uuid.NewString(), domain.Filter{
		Kinds: []int{domain.KindGroupMetadata},
	})
	if err != nil {
		return nil, err
	}
	records := make([]domain.GroupRecord, 0, len(events))
	for _, ev := range events {
		records = append(records, groupFromMetadata(ev))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *Service) requireAuth(ctx context.Context) error {
	if s.signer == nil {
		return domain.ErrAuthRequired
	}
	return s.sess.WaitAuthenticated(ctx)
}

// groupFromMetadata rebuilds a record from a metadata event. The format
// allows either a JSON content body or individual tags; content is read
// first and tags, in order, override it, so a later tag wins over both the
// content and an earlier tag of the same name.
func groupFromMetadata(ev domain.Event) domain.GroupRecord {
	rec := domain.GroupRecord{CreatedAt: ev.CreatedAt, Public: true}

	var meta struct {
		Name   string `json:"name"`
		About  string `json:"about"`
		Public *bool  `json:"public"`
	}
	if ev.Content != "" && json.Unmarshal([]byte(ev.Content), &meta) == nil {
		rec.Name = meta.Name
		rec.About = meta.About
		if meta.Public != nil {
			rec.Public = *meta.Public
		}
	}

	for _, t := range ev.Tags {
		switch t.Name() {
		case "d":
			rec.ID = t.Value()
		case "name":
			rec.Name = t.Value()
		case "about":
			rec.About = t.Value()
		case "public":
			rec.Public = t.Value() == "true"
		}
	}
	return rec
}

// Compile-time assertion that Service implements domain.GroupService.
var _ domain.GroupService = (*Service)(nil)
