package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/deppfellow/software-engineers/internal/database"
	"github.com/deppfellow/software-engineers/internal/model"
	"github.com/deppfellow/software-engineers/internal/repository"
)

type publishedEvent struct {
	action   model.ChangeAction
	engineer model.SoftwareEngineer
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishSoftwareEngineerEvent(_ context.Context, action model.ChangeAction, engineer model.SoftwareEngineer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{action: action, engineer: engineer})
	return p.err
}

type failingRepository struct {
	err error
}

func (r failingRepository) FindAll(context.Context) ([]model.SoftwareEngineer, error) {
	return nil, r.err
}

func (r failingRepository) FindByID(context.Context, int64) (model.SoftwareEngineer, bool, error) {
	return model.SoftwareEngineer{}, false, r.err
}

func (r failingRepository) Save(context.Context, model.SoftwareEngineer) (model.SoftwareEngineer, error) {
	return model.SoftwareEngineer{}, r.err
}

func (r failingRepository) DeleteByID(context.Context, int64) error {
	return r.err
}

func newTestRepository(t require.TestingT) (repository.SoftwareEngineerRepository, func()) {
	logger := zerolog.Nop()

	db, err := database.NewSQLite(":memory:", &logger)
	require.NoError(t, err)
	require.NoError(t, database.MigrateSQLite(context.Background(), &logger, db.SQL))

	return repository.NewSoftwareEngineerSQLite(db.SQL), func() { _ = db.Close() }
}

func newTestService(t *testing.T, publisher EventPublisher) *SoftwareEngineerService {
	t.Helper()
	repo, closeDB := newTestRepository(t)
	t.Cleanup(closeDB)
	return NewSoftwareEngineerService(repo, publisher, nil)
}

func TestGetAllSoftwareEngineers_Empty(t *testing.T) {
	svc := newTestService(t, nil)

	engineers, err := svc.GetAllSoftwareEngineers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, engineers)
	assert.Empty(t, engineers)
}

func TestInsertThenGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	saved, err := svc.InsertSoftwareEngineer(ctx, model.SoftwareEngineer{Name: "Lupo", TechStack: "js, node, react"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)

	found, err := svc.GetSoftwareEngineerByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SoftwareEngineer{ID: 1, Name: "Lupo", TechStack: "js, node, react"}, found)
}

func TestGetSoftwareEngineerByID_NotFound(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.GetSoftwareEngineerByID(context.Background(), 999)

	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(999), notFound.ID)
}

func TestUpdateSoftwareEngineerByID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	saved, err := svc.InsertSoftwareEngineer(ctx, model.SoftwareEngineer{Name: "Lupo", TechStack: "js"})
	require.NoError(t, err)

	updated, err := svc.UpdateSoftwareEngineerByID(ctx, saved.ID, model.SoftwareEngineer{ID: 77, Name: "Lupo B.", TechStack: "go"})
	require.NoError(t, err)
	assert.Equal(t, model.SoftwareEngineer{ID: saved.ID, Name: "Lupo B.", TechStack: "go"}, updated)

	all, err := svc.GetAllSoftwareEngineers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.SoftwareEngineer{updated}, all)
}

func TestUpdateSoftwareEngineerByID_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	_, err := svc.InsertSoftwareEngineer(ctx, model.SoftwareEngineer{Name: "Ada", TechStack: "go"})
	require.NoError(t, err)

	_, err = svc.UpdateSoftwareEngineerByID(ctx, 42, model.SoftwareEngineer{Name: "Ghost", TechStack: "none"})
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(42), notFound.ID)

	all, err := svc.GetAllSoftwareEngineers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.SoftwareEngineer{{ID: 1, Name: "Ada", TechStack: "go"}}, all)
}

func TestDeleteSoftwareEngineerByID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	saved, err := svc.InsertSoftwareEngineer(ctx, model.SoftwareEngineer{Name: "Grace", TechStack: "cobol"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSoftwareEngineerByID(ctx, saved.ID))
	require.NoError(t, svc.DeleteSoftwareEngineerByID(ctx, 12345))

	_, err = svc.GetSoftwareEngineerByID(ctx, saved.ID)
	assert.ErrorAs(t, err, new(*model.NotFoundError))
}

func TestPublishesEvents(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	svc := newTestService(t, publisher)

	saved, err := svc.InsertSoftwareEngineer(ctx, model.SoftwareEngineer{Name: "Ken", TechStack: "unix"})
	require.NoError(t, err)
	updated, err := svc.UpdateSoftwareEngineerByID(ctx, saved.ID, model.SoftwareEngineer{Name: "Ken T.", TechStack: "unix, b"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSoftwareEngineerByID(ctx, saved.ID))

	// failed update publishes nothing
	_, err = svc.UpdateSoftwareEngineerByID(ctx, 999, model.SoftwareEngineer{})
	require.Error(t, err)

	assert.Equal(t, []publishedEvent{
		{action: model.ChangeCreated, engineer: saved},
		{action: model.ChangeUpdated, engineer: updated},
		{action: model.ChangeDeleted, engineer: model.SoftwareEngineer{ID: saved.ID}},
	}, publisher.events)
}

func TestPublishFailureIsNotSurfaced(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("redis down")}
	svc := newTestService(t, publisher)

	saved, err := svc.InsertSoftwareEngineer(context.Background(), model.SoftwareEngineer{Name: "Barbara", TechStack: "clu"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Len(t, publisher.events, 1)
}

func TestRepositoryFailuresAreWrapped(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection refused")
	publisher := &recordingPublisher{}
	svc := NewSoftwareEngineerService(failingRepository{err: cause}, publisher, nil)

	_, err := svc.GetAllSoftwareEngineers(ctx)
	assert.ErrorIs(t, err, cause)

	_, err = svc.GetSoftwareEngineerByID(ctx, 1)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorAs(t, err, new(*model.NotFoundError))

	_, err = svc.InsertSoftwareEngineer(ctx, model.SoftwareEngineer{Name: "x"})
	assert.ErrorIs(t, err, cause)

	_, err = svc.UpdateSoftwareEngineerByID(ctx, 1, model.SoftwareEngineer{Name: "x"})
	assert.ErrorIs(t, err, cause)

	assert.ErrorIs(t, svc.DeleteSoftwareEngineerByID(ctx, 1), cause)
	assert.Empty(t, publisher.events)
}

var textGen = rapid.StringMatching(`[A-Za-z0-9 ,.+#-]{0,24}`)

func engineerGen() *rapid.Generator[model.SoftwareEngineer] {
	return rapid.Custom(func(t *rapid.T) model.SoftwareEngineer {
		return model.SoftwareEngineer{
			Name:      textGen.Draw(t, "name"),
			TechStack: textGen.Draw(t, "techStack"),
		}
	})
}

func TestProperty_InsertedRecordsAreListedInOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		repo, closeDB := newTestRepository(t)
		defer closeDB()
		svc := NewSoftwareEngineerService(repo, nil, nil)

		inputs := rapid.SliceOfN(engineerGen(), 0, 8).Draw(t, "engineers")

		want := make([]model.SoftwareEngineer, 0, len(inputs))
		for i, in := range inputs {
			saved, err := svc.InsertSoftwareEngineer(ctx, in)
			require.NoError(t, err)

			in.ID = int64(i + 1)
			require.Equal(t, in, saved)
			want = append(want, in)

			found, err := svc.GetSoftwareEngineerByID(ctx, saved.ID)
			require.NoError(t, err)
			require.Equal(t, saved, found)
		}

		all, err := svc.GetAllSoftwareEngineers(ctx)
		require.NoError(t, err)
		require.Equal(t, want, all)
	})
}

func TestProperty_UpdateTouchesOnlyTarget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		repo, closeDB := newTestRepository(t)
		defer closeDB()
		svc := NewSoftwareEngineerService(repo, nil, nil)

		inputs := rapid.SliceOfN(engineerGen(), 1, 6).Draw(t, "engineers")
		for _, in := range inputs {
			_, err := svc.InsertSoftwareEngineer(ctx, in)
			require.NoError(t, err)
		}
		before, err := svc.GetAllSoftwareEngineers(ctx)
		require.NoError(t, err)

		id := rapid.Int64Range(1, int64(len(inputs))+3).Draw(t, "id")
		update := engineerGen().Draw(t, "update")

		updated, err := svc.UpdateSoftwareEngineerByID(ctx, id, update)
		after, listErr := svc.GetAllSoftwareEngineers(ctx)
		require.NoError(t, listErr)

		if id > int64(len(inputs)) {
			var notFound *model.NotFoundError
			require.ErrorAs(t, err, &notFound)
			require.Equal(t, id, notFound.ID)
			require.Equal(t, before, after)
			return
		}

		require.NoError(t, err)
		require.Equal(t, model.SoftwareEngineer{ID: id, Name: update.Name, TechStack: update.TechStack}, updated)
		for i := range before {
			if before[i].ID == id {
				require.Equal(t, updated, after[i], fmt.Sprintf("record %d", id))
				continue
			}
			require.Equal(t, before[i], after[i])
		}
	})
}
