package query_test

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tablegen/dialect"
	"github.com/syssam/tablegen/query"
)

var (
	mysql    = dialect.MustLookup(dialect.MySQL)
	postgres = dialect.MustLookup(dialect.Postgres)
)

type filter struct {
	Name  *string
	Limit *int
}

func ptr[T any](v T) *T { return &v }

func usersSkeleton() query.Skeleton[filter] {
	return query.New[filter]("",
		query.Lit("SELECT * FROM t"),
		query.When(func(f filter) bool { return f.Name != nil },
			query.Lit("WHERE x ="), query.Arg(func(f filter) any { return *f.Name }),
		),
		query.When(func(f filter) bool { return f.Limit != nil },
			query.Lit("LIMIT"), query.Arg(func(f filter) any { return *f.Limit }),
		),
	)
}

func TestCompile_BranchOrder(t *testing.T) {
	plan, err := query.Compile(mysql, usersSkeleton())
	require.NoError(t, err)
	require.Len(t, plan.Branches, 4)

	assert.Equal(t, "SELECT * FROM t", plan.Name)
	assert.Equal(t, []int{0, 1}, plan.Branches[0].Guards)
	assert.Equal(t, []int{1}, plan.Branches[1].Guards)
	assert.Equal(t, []int{0}, plan.Branches[2].Guards)
	assert.Empty(t, plan.Branches[3].Guards)
	assert.Equal(t, []string{
		"SELECT * FROM t WHERE x = ? LIMIT ?",
		"SELECT * FROM t LIMIT ?",
		"SELECT * FROM t WHERE x = ?",
		"SELECT * FROM t",
	}, plan.Statements())
}

func TestPlan_Bind(t *testing.T) {
	plan := query.MustCompile(mysql, usersSkeleton())
	tests := []struct {
		name     string
		params   filter
		wantSQL  string
		wantArgs []any
	}{
		{"FilterOnly", filter{Name: ptr("a")}, "SELECT * FROM t WHERE x = ?", []any{"a"}},
		{"LimitOnly", filter{Limit: ptr(10)}, "SELECT * FROM t LIMIT ?", []any{10}},
		{"Both", filter{Name: ptr("a"), Limit: ptr(10)}, "SELECT * FROM t WHERE x = ? LIMIT ?", []any{"a", 10}},
		{"Neither", filter{}, "SELECT * FROM t", []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, args := plan.Bind(tt.params)
			assert.Equal(t, tt.wantSQL, stmt)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestPlan_PlaceholdersRenumberedPerBranch(t *testing.T) {
	plan := query.MustCompile(postgres, usersSkeleton())

	stmt, args := plan.Bind(filter{Limit: ptr(5)})
	assert.Equal(t, "SELECT * FROM t LIMIT $1", stmt)
	assert.Equal(t, []any{5}, args)

	stmt, args = plan.Bind(filter{Name: ptr("a"), Limit: ptr(5)})
	assert.Equal(t, "SELECT * FROM t WHERE x = $1 LIMIT $2", stmt)
	assert.Equal(t, []any{"a", 5}, args)
}

func TestPlan_FirstMatchWins(t *testing.T) {
	always := func(int) bool { return true }
	plan := query.MustCompile(mysql, query.New[int]("overlap",
		query.Lit("SELECT id FROM t WHERE 1 = 1"),
		query.When(always, query.Lit("AND a = 1")),
		query.When(always, query.Lit("AND b = 2")),
	))

	assert.Equal(t, 0, plan.Select(0))
	stmt, _ := plan.Bind(0)
	assert.Equal(t, "SELECT id FROM t WHERE 1 = 1 AND a = 1 AND b = 2", stmt)
}

func TestPlan_GuardsRunOnce(t *testing.T) {
	calls := 0
	guard := func(int) bool { calls++; return false }
	plan := query.MustCompile(mysql, query.New[int]("",
		query.Lit("SELECT id FROM t"),
		query.When(guard, query.Lit("WHERE a = 1")),
		query.When(func(int) bool { return false }, query.Lit("LIMIT 1")),
	))

	assert.Equal(t, 3, plan.Select(0))
	assert.Equal(t, 1, calls)
}

func TestPlan_SelectUnmatched(t *testing.T) {
	plan := &query.Plan[int]{Name: "empty"}
	assert.PanicsWithError(t, `tablegen: no branch of "empty" matched (0 scanned)`, func() {
		plan.Select(1)
	})
}

func TestCompile_Capacity(t *testing.T) {
	skeleton := func(points int) query.Skeleton[int] {
		tokens := []query.Token{query.Lit("SELECT id FROM t WHERE 1 = 1")}
		for i := range points {
			tokens = append(tokens, query.When(func(p int) bool { return p&(1<<i) != 0 },
				query.Lit("AND c"+strconv.Itoa(i)+" ="), query.Value(i),
			))
		}
		return query.New[int]("wide", tokens...)
	}

	t.Run("AtLimit", func(t *testing.T) {
		plan, err := query.Compile(mysql, skeleton(query.DefaultMaxBranchPoints))
		require.NoError(t, err)
		assert.Len(t, plan.Branches, 32)
	})

	t.Run("OverLimit", func(t *testing.T) {
		plan, err := query.Compile(mysql, skeleton(query.DefaultMaxBranchPoints+1))
		assert.Nil(t, plan)
		require.ErrorIs(t, err, query.ErrBranchCapacityExceeded)
		assert.ErrorIs(t, err, query.ErrInvalidQuery)
		assert.True(t, query.IsCompileError(err))
		assert.Contains(t, err.Error(), "6 branch points exceed the limit of 5")
	})

	t.Run("Raised", func(t *testing.T) {
		plan, err := query.Compile(mysql, skeleton(6), query.WithMaxBranchPoints(6))
		require.NoError(t, err)
		assert.Len(t, plan.Branches, 64)

		stmt, args := plan.Bind(0b100001)
		assert.Equal(t, "SELECT id FROM t WHERE 1 = 1 AND c0 = ? AND c5 = ?", stmt)
		assert.Equal(t, []any{0, 5}, args)
	})

	t.Run("Lowered", func(t *testing.T) {
		_, err := query.Compile(mysql, skeleton(2), query.WithMaxBranchPoints(1))
		assert.ErrorIs(t, err, query.ErrBranchCapacityExceeded)
	})

	t.Run("Zero", func(t *testing.T) {
		_, err := query.Compile(mysql, skeleton(1), query.WithMaxBranchPoints(-1))
		assert.ErrorIs(t, err, query.ErrBranchCapacityExceeded)
		plan, err := query.Compile(mysql, skeleton(0), query.WithMaxBranchPoints(0))
		require.NoError(t, err)
		assert.Len(t, plan.Branches, 1)
	})
}

func TestCompile_ResultShape(t *testing.T) {
	t.Run("Mismatch", func(t *testing.T) {
		_, err := query.Compile(mysql, query.New[bool]("users",
			query.Lit("SELECT id"),
			query.When(func(b bool) bool { return b }, query.Lit(", email")),
			query.Lit("FROM users"),
		))
		require.ErrorIs(t, err, query.ErrBranchResultShapeMismatch)
		var cerr *query.CompileError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, query.BranchResultShapeMismatch, cerr.Kind)
		assert.Equal(t, 1, cerr.Branch)
		assert.Equal(t, `query: users (branch 1): selects "id", branch 0 selects "id , email"`, err.Error())
	})

	t.Run("SubqueryInProjection", func(t *testing.T) {
		plan, err := query.Compile(postgres, query.New[bool]("",
			query.Lit("SELECT id, (SELECT count(*) FROM posts WHERE posts.user_id = users.id) AS n"),
			query.Lit("FROM users"),
			query.When(func(b bool) bool { return b }, query.Lit("WHERE id > 1")),
		))
		require.NoError(t, err)
		assert.Len(t, plan.Branches, 2)
	})

	t.Run("QuotedFrom", func(t *testing.T) {
		_, err := query.Compile(postgres, query.New[bool]("",
			query.Lit(`SELECT 'FROM' AS "from" FROM t`),
			query.When(func(b bool) bool { return b }, query.Lit("LIMIT 1")),
		))
		assert.NoError(t, err)
	})

	t.Run("NotSelect", func(t *testing.T) {
		plan, err := query.Compile(postgres, query.New[bool]("",
			query.Lit("UPDATE t SET a = 1"),
			query.When(func(b bool) bool { return b }, query.Lit(", b = 2")),
		))
		require.NoError(t, err)
		assert.Equal(t, []string{"UPDATE t SET a = 1 , b = 2", "UPDATE t SET a = 1"}, plan.Statements())
	})
}

func TestCompile_Errors(t *testing.T) {
	type other struct{}
	guard := func(int) bool { return true }

	tests := []struct {
		name string
		s    query.Skeleton[int]
		want error
	}{
		{
			name: "Nested",
			s: query.New[int]("", query.Lit("SELECT 1"),
				query.When(guard, query.When(guard, query.Lit("x")))),
			want: query.ErrNestedBranch,
		},
		{
			name: "ArgType",
			s:    query.New[int]("", query.Lit("SELECT ?"), query.Arg(func(other) any { return 1 })),
			want: query.ErrParamTypeMismatch,
		},
		{
			name: "GuardType",
			s:    query.New[int]("", query.Lit("SELECT 1"), query.When(func(other) bool { return true })),
			want: query.ErrParamTypeMismatch,
		},
		{
			name: "NilToken",
			s:    query.New[int]("", query.Lit("SELECT 1"), nil),
			want: query.ErrParamTypeMismatch,
		},
		{
			name: "EmptyFallback",
			s:    query.New[int]("", query.When(guard, query.Lit("SELECT 1"))),
			want: query.ErrEmptyQuery,
		},
		{
			name: "Blank",
			s:    query.New[int]("", query.Lit("   ")),
			want: query.ErrEmptyQuery,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := query.Compile(mysql, tt.s)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompile_NoBackend(t *testing.T) {
	_, err := query.Compile(nil, query.New[int]("q", query.Lit("SELECT 1")))
	assert.ErrorIs(t, err, query.ErrInvalidQuery)
}

func TestCompile_LiteralWhitespace(t *testing.T) {
	plan := query.MustCompile(mysql, query.New[int]("",
		query.Lit("  SELECT id,\n\temail "),
		query.Lit("FROM users  "),
		query.Lit("WHERE id ="), query.Value(7),
	))
	stmt, args := plan.Bind(0)
	assert.Equal(t, "SELECT id, email FROM users WHERE id = ?", stmt)
	assert.Equal(t, []any{7}, args)
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() {
		query.MustCompile(mysql, query.New[int]("", query.When(func(int) bool { return true })))
	})
}

func TestSkeleton_Points(t *testing.T) {
	s := usersSkeleton()
	assert.Equal(t, 2, s.Points())
	assert.Equal(t, 0, query.New[int]("", query.Lit("SELECT 1")).Points())
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "BranchCapacityExceeded", query.BranchCapacityExceeded.String())
	assert.Equal(t, "NestedBranch", query.NestedBranch.String())
	assert.Equal(t, fmt.Sprintf("ErrorKind(%d)", 42), query.ErrorKind(42).String())
}
