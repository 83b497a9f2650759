package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

func newTestSQLiteRepository(t *testing.T) *SQLiteLeadRepository {
	t.Helper()
	ctx := context.Background()

	db, err := NewSQLiteConnection(ctx, filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)

	repo := NewSQLiteLeadRepository(db)
	t.Cleanup(repo.Close)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func newLead(name string) *entity.Lead {
	return &entity.Lead{
		ID:            uuid.New().String(),
		Name:          name,
		Email:         name + "@example.com",
		Message:       "hello from " + name,
		Qualification: entity.QualificationCold,
		AIReply:       "Hi " + name,
	}
}

func TestSQLite_CreateAssignsCreatedAt(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	lead := newLead("ana")

	require.NoError(t, repo.Create(context.Background(), lead))
	assert.False(t, lead.CreatedAt.IsZero())
}

func TestSQLite_ListRecent_NewestFirst(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	a, b, c := newLead("a"), newLead("b"), newLead("c")
	for _, l := range []*entity.Lead{a, b, c} {
		require.NoError(t, repo.Create(ctx, l))
	}

	leads, err := repo.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{leads[0].ID, leads[1].ID, leads[2].ID})
}

func TestSQLite_RoundTripKeepsFields(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	lead := newLead("bia")
	lead.Qualification = entity.QualificationWarm
	lead.AIReply = "Hi Bia,\n\nThanks!"
	require.NoError(t, repo.Create(ctx, lead))

	leads, err := repo.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)

	got := leads[0]
	assert.Equal(t, lead.ID, got.ID)
	assert.Equal(t, lead.Email, got.Email)
	assert.Equal(t, lead.Message, got.Message)
	assert.Equal(t, entity.QualificationWarm, got.Qualification)
	assert.Equal(t, lead.AIReply, got.AIReply)
	assert.True(t, lead.CreatedAt.Equal(got.CreatedAt))
}

func TestSQLite_RejectsUnknownQualification(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	lead := newLead("x")
	lead.Qualification = "MAYBE"

	assert.Error(t, repo.Create(context.Background(), lead))
}

func TestSQLite_ListRecent_Empty(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	leads, err := repo.ListRecent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	assert.Error(t, err)
}
