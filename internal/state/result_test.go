package state

import (
	"testing"

	"github.com/abelbrown/qkart/internal/catalog"
)

func items(ids ...string) []catalog.Item {
	out := make([]catalog.Item, len(ids))
	for i, id := range ids {
		out[i] = catalog.Item{ID: id, Name: "item " + id}
	}
	return out
}

func TestInitialIsLoading(t *testing.T) {
	r := Initial()
	if r.Kind() != KindLoading {
		t.Fatalf("Initial().Kind() = %v, want loading", r.Kind())
	}
	if r.Items() != nil {
		t.Error("Loading must not expose items")
	}
}

func TestFromItems(t *testing.T) {
	if got := FromItems(nil).Kind(); got != KindEmpty {
		t.Errorf("FromItems(nil) = %v, want empty", got)
	}
	if got := FromItems([]catalog.Item{}).Kind(); got != KindEmpty {
		t.Errorf("FromItems([]) = %v, want empty", got)
	}

	r := FromItems(items("b", "a", "c"))
	if r.Kind() != KindPopulated {
		t.Fatalf("kind = %v, want populated", r.Kind())
	}
	got := r.Items()
	for i, want := range []string{"b", "a", "c"} {
		if got[i].ID != want {
			t.Errorf("items[%d] = %s, want %s (order must be preserved)", i, got[i].ID, want)
		}
	}
}

func TestFromItemsCopies(t *testing.T) {
	src := items("a")
	r := FromItems(src)
	src[0].ID = "mutated"
	if r.Items()[0].ID != "a" {
		t.Error("Result aliased caller's slice")
	}
}

func TestInitialFetchEmptyGoesStraightToEmpty(t *testing.T) {
	r := Initial().Resolve([]catalog.Item{})
	if r.Kind() != KindEmpty {
		t.Fatalf("kind = %v, want empty", r.Kind())
	}
}

func TestInitialFetchFailureIsEmpty(t *testing.T) {
	r := Initial().Fail()
	if r.Kind() != KindEmpty {
		t.Fatalf("kind = %v, want empty", r.Kind())
	}
}

func TestTransitions(t *testing.T) {
	populated := FromItems(items("a", "b"))

	tests := []struct {
		name     string
		start    Result
		step     func(Result) Result
		wantKind Kind
		wantLen  int
	}{
		{"begin from populated", populated, Result.Begin, KindLoading, 0},
		{"begin from empty", Empty(), Result.Begin, KindLoading, 0},
		{"resolve non-empty", populated.Begin(), func(r Result) Result { return r.Resolve(items("x")) }, KindPopulated, 1},
		{"resolve empty", populated.Begin(), func(r Result) Result { return r.Resolve(nil) }, KindEmpty, 0},
		{"not found", populated.Begin(), Result.NotFound, KindEmpty, 0},
		{"fail restores populated", populated.Begin(), Result.Fail, KindPopulated, 2},
		{"fail restores empty", Empty().Begin(), Result.Fail, KindEmpty, 0},
		{"fail outside loading is no-op", populated, Result.Fail, KindPopulated, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.step(tt.start)
			if got.Kind() != tt.wantKind {
				t.Errorf("kind = %v, want %v", got.Kind(), tt.wantKind)
			}
			if got.Len() != tt.wantLen {
				t.Errorf("len = %d, want %d", got.Len(), tt.wantLen)
			}
		})
	}
}

func TestBeginWhileLoadingKeepsFallback(t *testing.T) {
	r := FromItems(items("a")).Begin().Begin()
	back := r.Fail()
	if back.Kind() != KindPopulated || back.Items()[0].ID != "a" {
		t.Errorf("fallback lost after nested Begin: %v", back.Kind())
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{
		KindLoading:   "loading",
		KindEmpty:     "empty",
		KindPopulated: "populated",
		Kind(0):       "invalid",
	} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
