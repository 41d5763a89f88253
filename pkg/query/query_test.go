package query_test

import (
	"slices"
	"testing"

	"github.com/JaimeStill/nourish/pkg/query"
)

const columns = "c.image_id, c.storage_key, c.consent, c.labels, c.created_at"

func corrections() *query.ProjectionMap {
	return query.NewProjectionMap("public", "ingredient_corrections", "c").
		Project("image_id", "ID").
		Project("storage_key", "StorageKey").
		Project("consent", "Consent").
		Project("labels", "Labels").
		Project("created_at", "CreatedAt")
}

func ptr[T any](v T) *T { return &v }

func TestProjection(t *testing.T) {
	p := corrections()

	if got := p.From(); got != "public.ingredient_corrections c" {
		t.Errorf("From() = %q", got)
	}
	if got := p.Columns(); got != columns {
		t.Errorf("Columns() = %q", got)
	}

	tests := []struct {
		view string
		want string
	}{
		{"StorageKey", "c.storage_key"},
		{"CreatedAt", "c.created_at"},
		{"unmapped", "unmapped"},
	}
	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			if got := p.Column(tt.view); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.view, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"ascending", "Labels", []query.SortField{{Field: "Labels"}}},
		{"descending", "-CreatedAt", []query.SortField{{Field: "CreatedAt", Descending: true}}},
		{
			"mixed with blanks and spaces",
			" Labels ,, -CreatedAt ",
			[]query.SortField{{Field: "Labels"}, {Field: "CreatedAt", Descending: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildCount(t *testing.T) {
	tests := []struct {
		name     string
		build    func(*query.Builder)
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no conditions",
			build:   func(*query.Builder) {},
			wantSQL: "SELECT COUNT(*) FROM public.ingredient_corrections c",
		},
		{
			name: "nil and empty filters skipped",
			build: func(b *query.Builder) {
				var consent *bool
				b.WhereContains("Labels", nil).
					WhereContains("Labels", ptr("")).
					WhereEquals("Consent", consent).
					WhereSearch(nil, "Labels").
					WhereSearch(ptr("rice"))
			},
			wantSQL: "SELECT COUNT(*) FROM public.ingredient_corrections c",
		},
		{
			name: "search then filters numbered in order",
			build: func(b *query.Builder) {
				b.WhereSearch(ptr("rice"), "Labels", "StorageKey").
					WhereContains("Labels", ptr("egg")).
					WhereEquals("Consent", ptr(true))
			},
			wantSQL: "SELECT COUNT(*) FROM public.ingredient_corrections c" +
				" WHERE (c.labels ILIKE $1 OR c.storage_key ILIKE $2) AND c.labels ILIKE $3 AND c.consent = $4",
			wantArgs: []any{"%rice%", "%rice%", "%egg%", ptr(true)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(corrections())
			tt.build(b)

			sql, args := b.BuildCount()
			if sql != tt.wantSQL {
				t.Errorf("sql = %q\nwant %q", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i, want := range tt.wantArgs {
				if s, ok := want.(string); ok && args[i] != s {
					t.Errorf("args[%d] = %v, want %v", i, args[i], s)
				}
			}
		})
	}
}

func TestBuildPage(t *testing.T) {
	newest := query.SortField{Field: "CreatedAt", Descending: true}

	tests := []struct {
		name     string
		sort     []query.SortField
		page     int
		pageSize int
		want     string
	}{
		{
			name:     "default sort",
			page:     1,
			pageSize: 20,
			want:     "SELECT " + columns + " FROM public.ingredient_corrections c ORDER BY c.created_at DESC LIMIT 20 OFFSET 0",
		},
		{
			name:     "requested sort overrides default",
			sort:     []query.SortField{{Field: "Labels"}, {Field: "CreatedAt", Descending: true}},
			page:     3,
			pageSize: 25,
			want:     "SELECT " + columns + " FROM public.ingredient_corrections c ORDER BY c.labels ASC, c.created_at DESC LIMIT 25 OFFSET 50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(corrections(), newest)
			if tt.sort != nil {
				b.OrderByFields(tt.sort)
			}

			sql, args := b.BuildPage(tt.page, tt.pageSize)
			if sql != tt.want {
				t.Errorf("sql = %q\nwant %q", sql, tt.want)
			}
			if len(args) != 0 {
				t.Errorf("args = %v, want none", args)
			}
		})
	}
}

func TestBuildPageKeepsConditionArgs(t *testing.T) {
	b := query.NewBuilder(corrections()).WhereEquals("Consent", true)

	sql, args := b.BuildPage(2, 10)

	want := "SELECT " + columns + " FROM public.ingredient_corrections c WHERE c.consent = $1 LIMIT 10 OFFSET 10"
	if sql != want {
		t.Errorf("sql = %q\nwant %q", sql, want)
	}
	if len(args) != 1 || args[0] != true {
		t.Errorf("args = %v, want [true]", args)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(corrections()).BuildSingle("ID", "6f1c")

	want := "SELECT " + columns + " FROM public.ingredient_corrections c WHERE c.image_id = $1"
	if sql != want {
		t.Errorf("sql = %q\nwant %q", sql, want)
	}
	if len(args) != 1 || args[0] != "6f1c" {
		t.Errorf("args = %v, want [6f1c]", args)
	}
}
