package search

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRank_ExactNameMatchScoresHigh(t *testing.T) {
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50)

	results, err := svc.Rank(context.Background(), "milk", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].ID != "p1" {
		t.Errorf("expected Amul Milk first, got %s", results[0].Name)
	}
	if results[0].Score < 95 {
		t.Errorf("exact name match score = %.1f, want >= 95", results[0].Score)
	}
}

func TestRank_HindiKeyword(t *testing.T) {
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50)

	results, err := svc.Rank(context.Background(), "cheeni", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].ID != "p2" {
		t.Errorf("expected Madhur Sugar first, got %s", results[0].Name)
	}
	if results[0].Score < 75 {
		t.Errorf("keyword hit score = %.1f, want >= 75", results[0].Score)
	}
}

func TestRank_IntentExpansion(t *testing.T) {
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50)

	results, err := svc.Rank(context.Background(), "something for cold", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected the intent to surface a product")
	}
	if results[0].ID != "p4" {
		t.Errorf("expected Crocin Advance first, got %s", results[0].Name)
	}
}

func TestRank_HomographKeywordBeatsNearName(t *testing.T) {
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50)

	// "dairy" is one transposition away from the Classmate Diary name but
	// an exact keyword of the milk; the keyword floor must win.
	results, err := svc.Rank(context.Background(), "dairy", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].ID != "p1" {
		t.Errorf("expected Amul Milk first for \"dairy\", got %s", results[0].Name)
	}

	results, err = svc.Rank(context.Background(), "diary", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) == 0 || results[0].ID != "p3" {
		t.Errorf("expected Classmate Diary first for \"diary\", got %v", results)
	}
}

func TestRank_ResultShape(t *testing.T) {
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50)

	results, err := svc.Rank(context.Background(), "breakfast", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if len(results) > 3 {
		t.Errorf("expected at most 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Score < 50 || r.Score > 100 {
			t.Errorf("result %d score %.1f outside [50, 100]", i, r.Score)
		}
		if r.Rank != i+1 {
			t.Errorf("result %d has rank %d", i, r.Rank)
		}
		if i > 0 && results[i-1].Score < r.Score {
			t.Errorf("results not sorted: %.1f before %.1f", results[i-1].Score, r.Score)
		}
	}
}

func TestRank_TopNOverride(t *testing.T) {
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50)

	results, err := svc.Rank(context.Background(), "breakfast", 1)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 result, got %d", len(results))
	}
	if results[0].ID != "p5" {
		t.Errorf("expected Britannia Bread first, got %s", results[0].Name)
	}
}

func TestRank_EmptyQueryAndCatalog(t *testing.T) {
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50)
	if results, err := svc.Rank(context.Background(), "   ", 0); err != nil || results != nil {
		t.Errorf("blank query: got (%v, %v), want (nil, nil)", results, err)
	}

	svc = New(&mockCatalog{}, 3, 50)
	if results, err := svc.Rank(context.Background(), "milk", 0); err != nil || results != nil {
		t.Errorf("empty catalog: got (%v, %v), want (nil, nil)", results, err)
	}
}

func TestRank_CatalogErrorPropagates(t *testing.T) {
	wantErr := errors.New("store down")
	svc := New(&mockCatalog{err: wantErr}, 3, 50)

	_, err := svc.Rank(context.Background(), "milk", 0)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped catalog error, got %v", err)
	}
}

func TestRank_SemanticTier(t *testing.T) {
	matcher := &mockMatcher{indices: []int{2, 1}}
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50).
		WithMatcher(matcher, time.Second)

	results, err := svc.Rank(context.Background(), "sweetener", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 semantic results, got %d", len(results))
	}
	if results[0].ID != "p2" || results[1].ID != "p1" {
		t.Errorf("semantic order wrong: %s, %s", results[0].Name, results[1].Name)
	}
	if results[0].Score != 100 || results[1].Score != 95 {
		t.Errorf("semantic scores = %.0f, %.0f, want 100, 95", results[0].Score, results[1].Score)
	}
	if matcher.calls != 1 {
		t.Errorf("matcher called %d times, want 1", matcher.calls)
	}
}

func TestRank_SemanticSkipsInvalidIndices(t *testing.T) {
	matcher := &mockMatcher{indices: []int{99, 0, 3}}
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50).
		WithMatcher(matcher, time.Second)

	results, err := svc.Rank(context.Background(), "notebook", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "p3" {
		t.Fatalf("expected only the in-range index to survive, got %v", results)
	}
	if results[0].Score != 100 {
		t.Errorf("score = %.0f, want 100", results[0].Score)
	}
}

func TestRank_SemanticFailureFallsBackToFuzzy(t *testing.T) {
	matcher := &mockMatcher{err: errMatcherDown}
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50).
		WithMatcher(matcher, time.Second)

	results, err := svc.Rank(context.Background(), "milk", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) == 0 || results[0].ID != "p1" {
		t.Errorf("expected fuzzy fallback to find Amul Milk, got %v", results)
	}
	if matcher.calls != 1 {
		t.Errorf("matcher called %d times, want 1", matcher.calls)
	}
}

func TestRank_SemanticAllInvalidFallsBackToFuzzy(t *testing.T) {
	matcher := &mockMatcher{indices: []int{99}}
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50).
		WithMatcher(matcher, time.Second)

	results, err := svc.Rank(context.Background(), "milk", 0)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) == 0 || results[0].ID != "p1" {
		t.Errorf("expected fuzzy fallback, got %v", results)
	}
}

func TestRank_BlankQuerySkipsMatcher(t *testing.T) {
	matcher := &mockMatcher{indices: []int{1}}
	svc := New(&mockCatalog{products: sampleCatalog()}, 3, 50).
		WithMatcher(matcher, time.Second)

	if _, err := svc.Rank(context.Background(), "", 0); err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if matcher.calls != 0 {
		t.Errorf("matcher called %d times for a blank query", matcher.calls)
	}
}

func TestBuildListing(t *testing.T) {
	listing := buildListing(sampleCatalog()[:2])

	want := "1. Amul Milk [Dairy] (Amul) — milk, doodh, dairy\n" +
		"2. Madhur Sugar [Grocery] (Madhur) — cheeni, sweet, sakkar"
	if listing != want {
		t.Errorf("listing =\n%s\nwant\n%s", listing, want)
	}
}
