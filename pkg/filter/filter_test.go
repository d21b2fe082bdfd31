package filter

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
)

type record struct {
	ID        uuid.UUID  `db:"id"`
	Name      string     `db:"name"`
	Kind      string     `db:"kind"`
	Active    bool       `db:"active"`
	OwnerID   *uuid.UUID `db:"owner_id"`
	CreatedAt time.Time  `db:"created_at"`
}

var testSchema = Schema{
	Fields: map[string]Field{
		"id":        {Column: "id", Kind: KindUUID},
		"name":      {Column: "name", Kind: KindText},
		"kind":      {Column: "kind", Kind: KindExact},
		"active":    {Column: "active", Kind: KindBool},
		"ownerId":   {Column: "owner_id", Kind: KindUUID},
		"createdAt": {Column: "created_at", Kind: KindTime},
	},
	DefaultSort:      "createdAt",
	DefaultDirection: Desc,
}

func TestCompile_Defaults(t *testing.T) {
	q, err := testSchema.Compile(Request{})
	require.NoError(t, err)

	assert.Empty(t, q.Conditions)
	assert.Equal(t, "created_at", q.SortColumn)
	assert.Equal(t, Desc, q.Direction)
	assert.Equal(t, 0, q.PageNumber)
	assert.Equal(t, DefaultPageSize, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestCompile_PaginationClamped(t *testing.T) {
	q, err := testSchema.Compile(Request{Pagination: Pagination{PageNumber: 3, PageSize: 1000}})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, q.Limit)
	assert.Equal(t, 3*MaxPageSize, q.Offset)

	q, err = testSchema.Compile(Request{Pagination: Pagination{PageNumber: -2, PageSize: -1}})
	require.NoError(t, err)
	assert.Equal(t, 0, q.PageNumber)
	assert.Equal(t, DefaultPageSize, q.Limit)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"unknown filter field", Request{Filters: map[string]interface{}{"password": "x"}}},
		{"bad uuid", Request{Filters: map[string]interface{}{"ownerId": "not-a-uuid"}}},
		{"bool expected", Request{Filters: map[string]interface{}{"active": "yes"}}},
		{"string expected", Request{Filters: map[string]interface{}{"kind": 12.0}}},
		{"time in filters", Request{Filters: map[string]interface{}{"createdAt": "2024-01-01T00:00:00Z"}}},
		{"range on non time field", Request{RangeFilters: RangeFilters{Ranges: map[string]Range{"name": {}}}}},
		{"unknown sort field", Request{Pagination: Pagination{SortBy: "password"}}},
		{"bad direction", Request{Pagination: Pagination{SortDirection: "UP"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testSchema.Compile(tt.req)
			require.Error(t, err)
			assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeInvalidInput))
		})
	}
}

func TestCompile_NullFilterIgnored(t *testing.T) {
	q, err := testSchema.Compile(Request{Filters: map[string]interface{}{"name": nil}})
	require.NoError(t, err)
	assert.Empty(t, q.Conditions)
}

func TestApply(t *testing.T) {
	owner := uuid.New()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	items := []record{
		{ID: uuid.New(), Name: "Alpha", Kind: "GLOBAL", Active: true, OwnerID: &owner, CreatedAt: base},
		{ID: uuid.New(), Name: "alphabet", Kind: "BRANCH", Active: false, CreatedAt: base.Add(time.Hour)},
		{ID: uuid.New(), Name: "Beta", Kind: "GLOBAL", Active: true, CreatedAt: base.Add(2 * time.Hour)},
	}

	t.Run("text filter is case insensitive", func(t *testing.T) {
		q, err := testSchema.Compile(Request{Filters: map[string]interface{}{"name": "ALPHA"}})
		require.NoError(t, err)
		page := Apply(q, items)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Equal(t, "alphabet", page.Content[0].Name)
	})

	t.Run("exact and bool filters", func(t *testing.T) {
		q, err := testSchema.Compile(Request{Filters: map[string]interface{}{"kind": "GLOBAL", "active": true}})
		require.NoError(t, err)
		page := Apply(q, items)
		assert.Equal(t, int64(2), page.TotalElements)
	})

	t.Run("uuid filter skips nil pointers", func(t *testing.T) {
		q, err := testSchema.Compile(Request{Filters: map[string]interface{}{"ownerId": owner.String()}})
		require.NoError(t, err)
		page := Apply(q, items)
		require.Len(t, page.Content, 1)
		assert.Equal(t, "Alpha", page.Content[0].Name)
	})

	t.Run("range filter", func(t *testing.T) {
		from := base.Add(30 * time.Minute)
		q, err := testSchema.Compile(Request{RangeFilters: RangeFilters{Ranges: map[string]Range{"createdAt": {From: &from}}}})
		require.NoError(t, err)
		page := Apply(q, items)
		assert.Equal(t, int64(2), page.TotalElements)
	})

	t.Run("sort and paginate", func(t *testing.T) {
		q, err := testSchema.Compile(Request{Pagination: Pagination{PageNumber: 1, PageSize: 2, SortBy: "name", SortDirection: "asc"}})
		require.NoError(t, err)
		page := Apply(q, items)
		assert.Equal(t, int64(3), page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 1, page.CurrentPage)
		require.Len(t, page.Content, 1)
		assert.Equal(t, "alphabet", page.Content[0].Name)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		q, err := testSchema.Compile(Request{Pagination: Pagination{PageNumber: 5, PageSize: 10}})
		require.NoError(t, err)
		page := Apply(q, items)
		assert.NotNil(t, page.Content)
		assert.Empty(t, page.Content)
		assert.Equal(t, int64(3), page.TotalElements)
	})

	t.Run("last allowed page is empty", func(t *testing.T) {
		q, err := testSchema.Compile(Request{Pagination: Pagination{PageNumber: MaxPageNumber, PageSize: MaxPageSize}})
		require.NoError(t, err)
		assert.Equal(t, MaxPageNumber*MaxPageSize, q.Offset)
		page := Apply(q, items)
		assert.Empty(t, page.Content)
		assert.Equal(t, int64(3), page.TotalElements)
		assert.Equal(t, MaxPageNumber, page.CurrentPage)
	})

	t.Run("out of range offsets are clamped", func(t *testing.T) {
		for _, offset := range []int{-10, math.MaxInt - 1} {
			page := Apply(Query{SortColumn: "name", Limit: 10, Offset: offset}, items)
			assert.Equal(t, int64(3), page.TotalElements)
			assert.LessOrEqual(t, len(page.Content), 3)
		}
	})
}

func TestCompile_PageNumberTooLarge(t *testing.T) {
	for _, pageNumber := range []int{MaxPageNumber + 1, 922337203685477581, math.MaxInt} {
		_, err := testSchema.Compile(Request{Pagination: Pagination{PageNumber: pageNumber, PageSize: 10}})
		require.Error(t, err)
		assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeInvalidInput))
		assert.Contains(t, idmerrors.GetMessage(err), "pagination.pageNumber")
	}
}

func TestRequestWith(t *testing.T) {
	orig := Request{Filters: map[string]interface{}{"kind": "GLOBAL"}}
	id := uuid.New()
	pinned := orig.With("ownerId", id)

	assert.Len(t, orig.Filters, 1)
	assert.Equal(t, id, pinned.Filters["ownerId"])
	assert.Equal(t, "GLOBAL", pinned.Filters["kind"])
}

func TestMapPage(t *testing.T) {
	p := Page[int]{Content: []int{1, 2}, TotalElements: 12, TotalPages: 6, CurrentPage: 1}
	out := MapPage(p, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c"}, out.Content)
	assert.Equal(t, int64(12), out.TotalElements)
	assert.Equal(t, 6, out.TotalPages)
	assert.Equal(t, 1, out.CurrentPage)
}
