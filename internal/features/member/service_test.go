package member

import (
	"context"
	"testing"

	common_models "studentz/internal/common/models"
	"studentz/internal/store"
	"studentz/internal/store/storetest"
	"studentz/pkg/ident"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []common_models.FeedEvent
}

func (p *recordingPublisher) Publish(ev common_models.FeedEvent) {
	p.events = append(p.events, ev)
}

func TestCreateMemberPublishesIdentifiers(t *testing.T) {
	repo := storetest.NewMemoryStore(func(m *Member) string { return m.MemberID })
	pub := &recordingPublisher{}
	svc := NewMemberService(repo, ident.New(), pub)

	m, err := svc.CreateMember(context.Background(), CreateMemberRequest{
		Name: "Ravi", College: "BMSCE", Email: "ravi@example.com", WhatsApp: "9876543210",
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, common_models.FeedEvent{
		Type:      common_models.FeedMemberCreated,
		ID:        m.MemberID,
		CreatedAt: m.CreatedAt,
	}, pub.events[0])
}

func TestCreateMemberFailedInsertPublishesNothing(t *testing.T) {
	repo := storetest.NewMemoryStore(func(m *Member) string { return m.MemberID })
	repo.FailWith = store.ErrDuplicateIdentifier
	pub := &recordingPublisher{}
	svc := NewMemberService(repo, ident.New(), pub)

	_, err := svc.CreateMember(context.Background(), CreateMemberRequest{
		Name: "Ravi", College: "BMSCE", Email: "ravi@example.com", WhatsApp: "9876543210",
	})
	assert.ErrorIs(t, err, store.ErrDuplicateIdentifier)
	assert.Empty(t, pub.events)
}
