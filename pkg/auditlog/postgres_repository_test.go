package auditlog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-user-mgmt/pkg/database/dbtest"
	"github.com/tendant/simple-user-mgmt/pkg/filter"
)

func TestPostgresAuditLogRepository(t *testing.T) {
	pool := dbtest.Setup(t)
	repo := NewPostgresAuditLogRepository(pool)
	ctx := context.Background()

	user := uuid.New()
	ip := "10.0.0.7"
	created, err := repo.Create(ctx, AuditLog{
		UserAccountID: user,
		Action:        "CREATE",
		Resource:      "role",
		ResourceID:    "r-1",
		Metadata:      json.RawMessage(`{"name":"ADMIN"}`),
		IPAddress:     &ip,
		Timestamp:     base,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.JSONEq(t, `{"name":"ADMIN"}`, string(created.Metadata))
	assert.True(t, base.Equal(created.Timestamp))

	for i, action := range []string{"UPDATE", "DELETE"} {
		_, err := repo.Create(ctx, AuditLog{
			UserAccountID: user,
			Action:        action,
			Resource:      "role",
			ResourceID:    "r-1",
			Timestamp:     base.Add(time.Duration(i+1) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err = repo.Create(ctx, AuditLog{
		UserAccountID: uuid.New(),
		Action:        "CREATE",
		Resource:      "permission",
		ResourceID:    "p-1",
		Timestamp:     base.Add(5 * time.Minute),
	})
	require.NoError(t, err)

	defaultQuery := func(t *testing.T) filter.Query {
		q, err := FilterSchema.Compile(filter.NewRequest(0, 10))
		require.NoError(t, err)
		return q
	}

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "CREATE", got.Action)
		require.NotNil(t, got.IPAddress)
		assert.Equal(t, ip, *got.IPAddress)

		_, err = repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrAuditLogNotFound)
	})

	t.Run("by user newest first", func(t *testing.T) {
		page, err := repo.FindByUserAccountID(ctx, user, defaultQuery(t))
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.TotalElements)
		require.Len(t, page.Content, 3)
		assert.Equal(t, "DELETE", page.Content[0].Action)
		assert.Equal(t, "CREATE", page.Content[2].Action)
	})

	t.Run("by action and resource", func(t *testing.T) {
		page, err := repo.FindByAction(ctx, "CREATE", defaultQuery(t))
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.TotalElements)

		page, err = repo.FindByResource(ctx, "role", "r-1", defaultQuery(t))
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.TotalElements)
	})

	t.Run("time range", func(t *testing.T) {
		from := base.Add(30 * time.Second)
		q, err := FilterSchema.Compile(filter.Request{
			RangeFilters: filter.RangeFilters{Ranges: map[string]filter.Range{"timestamp": {From: &from}}},
			Pagination:   filter.Pagination{PageSize: 10, SortBy: "timestamp", SortDirection: "ASC"},
		})
		require.NoError(t, err)
		page, err := repo.Filter(ctx, q)
		require.NoError(t, err)
		require.Len(t, page.Content, 3)
		assert.Equal(t, "UPDATE", page.Content[0].Action)
	})

	t.Run("update and delete", func(t *testing.T) {
		changed := created
		changed.Metadata = nil
		changed.Action = "RENAME"
		updated, err := repo.Update(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "RENAME", updated.Action)
		assert.Empty(t, updated.Metadata)

		_, err = repo.Update(ctx, AuditLog{ID: uuid.New(), UserAccountID: user, Action: "X", Resource: "x", ResourceID: "x", Timestamp: base})
		assert.ErrorIs(t, err, ErrAuditLogNotFound)

		require.NoError(t, repo.Delete(ctx, created.ID))
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrAuditLogNotFound)
	})
}
