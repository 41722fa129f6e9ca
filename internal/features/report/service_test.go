package report

import (
	"context"
	"errors"
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

func TestCreateReportPublishesIdentifiers(t *testing.T) {
	repo := storetest.NewMemoryStore(func(r *Report) string { return r.ReferenceID })
	pub := &recordingPublisher{}
	svc := NewReportService(repo, ident.New(), pub)

	r, err := svc.CreateReport(context.Background(), CreateReportRequest{
		Name: "Asha", College: "RVCE", Email: "asha@example.com", Details: "No water on floor 2",
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, common_models.FeedEvent{
		Type:      common_models.FeedReportCreated,
		ID:        r.ReferenceID,
		CreatedAt: r.CreatedAt,
	}, pub.events[0])
}

func TestCreateReportFailedInsertPublishesNothing(t *testing.T) {
	repo := storetest.NewMemoryStore(func(r *Report) string { return r.ReferenceID })
	repo.FailWith = errors.Join(store.ErrStoreFailure, errors.New("socket closed"))
	pub := &recordingPublisher{}
	svc := NewReportService(repo, ident.New(), pub)

	_, err := svc.CreateReport(context.Background(), CreateReportRequest{Name: "A", College: "B", Details: "C"})
	assert.ErrorIs(t, err, store.ErrStoreFailure)
	assert.Empty(t, pub.events)
}
