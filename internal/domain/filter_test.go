package domain

import "testing"

func TestFilterType_IsValid(t *testing.T) {
	t.Parallel()

	for _, ft := range []FilterType{FilterTerm, FilterDefinition, FilterTag, FilterLocale} {
		if !ft.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", ft)
		}
	}
	if FilterType("BOGUS").IsValid() {
		t.Error("BOGUS.IsValid() = true, want false")
	}
}

func TestFilter_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filter Filter
		want   string
	}{
		{NewFilter(FilterTerm, "dama"), "dama"},
		{NewFilter(FilterDefinition, "of the"), `"of the"`},
		{NewFilter(FilterTag, "science"), "[science]"},
		{NewFilter(FilterLocale, "en-AU"), "(en-AU)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.filter.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterSet_DuplicatesCollapse(t *testing.T) {
	t.Parallel()

	s := NewFilterSet(
		NewFilter(FilterTag, "tag1"),
		NewFilter(FilterTag, "tag1"),
		NewFilter(FilterTag, "tag2"),
	)

	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
}

func TestFilterSet_SameQueryDifferentType(t *testing.T) {
	t.Parallel()

	s := NewFilterSet(
		NewFilter(FilterTerm, "a"),
		NewFilter(FilterDefinition, "a"),
	)

	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
}

func TestFilterSet_VerifiedIsNotPartOfIdentity(t *testing.T) {
	t.Parallel()

	s := NewFilterSet(NewFilter(FilterTag, "science"))
	verified := Filter{Type: FilterTag, Query: "science", Verified: true}

	if !s.Contains(verified) {
		t.Fatal("Contains should ignore Verified")
	}

	s.Add(verified)
	if len(s) != 1 {
		t.Fatalf("len = %d, want 1", len(s))
	}
	if s[verified.Key()].Verified {
		t.Error("Add must not replace an existing filter")
	}

	s.Set(verified)
	if !s[verified.Key()].Verified {
		t.Error("Set should replace the existing filter")
	}
}

func TestFilterSet_Join(t *testing.T) {
	t.Parallel()

	s := NewFilterSet(
		NewFilter(FilterTerm, "dam"),
		NewFilter(FilterLocale, "en-AU"),
		NewFilter(FilterTag, "science"),
	)

	if got, want := s.Join(" "), "(en-AU) [science] dam"; got != want {
		t.Errorf("Join = %q, want %q", got, want)
	}
	if got := NewFilterSet().Join("+"); got != "" {
		t.Errorf("Join on empty set = %q, want empty", got)
	}
}

func TestFilterSet_RemovalQuery(t *testing.T) {
	t.Parallel()

	tag := NewFilter(FilterTag, "science")
	term := NewFilter(FilterTerm, "quark")
	s := NewFilterSet(tag, term)

	got, ok := s.RemovalQuery(tag, " ")
	if !ok {
		t.Fatal("RemovalQuery with two filters should succeed")
	}
	if got != "quark" {
		t.Errorf("RemovalQuery = %q, want %q", got, "quark")
	}
	if len(s) != 2 {
		t.Error("RemovalQuery must not modify the original set")
	}

	single := NewFilterSet(tag)
	if _, ok := single.RemovalQuery(tag, " "); ok {
		t.Error("RemovalQuery on a single-filter set should report false")
	}

	if _, ok := s.RemovalQuery(NewFilter(FilterLocale, "en-AU"), " "); ok {
		t.Error("RemovalQuery for an absent filter should report false")
	}
}
