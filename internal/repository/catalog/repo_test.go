package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/gridmart/martpilot/internal/domain"
)

const prefix = "test:"

func seedAisle(t *testing.T, repo *Repo, id, name, section string, row, col int) {
	t.Helper()
	err := repo.SaveAisle(context.Background(), domain.Aisle{
		ID: id, Name: name, Section: section, Row: row, Col: col,
	})
	if err != nil {
		t.Fatalf("SaveAisle: %v", err)
	}
}

func seedProduct(t *testing.T, repo *Repo, p domain.Product) {
	t.Helper()
	if err := repo.SaveProduct(context.Background(), p); err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}
}

func TestProductRoundTrip(t *testing.T) {
	repo := New(newMemStore(), prefix)
	seedAisle(t, repo, "a1", "A1", "Grocery", 0, 2)
	seedProduct(t, repo, domain.Product{
		ID: "p1", Name: "Sugar", Brand: "Madhur", Category: "Grocery",
		Variants: []string{"1kg", "5kg"}, Price: 45, Quantity: "1 kg",
		AisleID: "a1", Shelf: 2, Keywords: "cheeni, sweet",
	})

	p, err := repo.GetProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.Name != "Sugar" || p.Price != 45 || p.Shelf != 2 {
		t.Errorf("unexpected product: %+v", p)
	}
	if len(p.Variants) != 2 || p.Variants[0] != "1kg" {
		t.Errorf("unexpected variants: %v", p.Variants)
	}
	if p.AisleName != "A1" || p.Section != "Grocery" || p.AisleRow != 0 || p.AisleCol != 2 {
		t.Errorf("aisle not joined: %+v", p)
	}
}

func TestSaveProducts_Batch(t *testing.T) {
	store := newMemStore()
	repo := New(store, prefix)

	err := repo.SaveProducts(context.Background(), []domain.Product{
		{ID: "p1", Name: "Milk", Shelf: 1},
		{ID: "p2", Name: "Bread", Shelf: 2},
		{ID: "p3", Name: "Butter", Shelf: 3},
	})
	if err != nil {
		t.Fatalf("SaveProducts: %v", err)
	}

	if store.multiCalls != 1 {
		t.Errorf("round trips = %d, want 1", store.multiCalls)
	}
	for _, id := range []string{"p1", "p2", "p3"} {
		if _, err := repo.GetProduct(context.Background(), id); err != nil {
			t.Errorf("GetProduct(%s): %v", id, err)
		}
	}
}

func TestSaveProducts_Empty(t *testing.T) {
	store := newMemStore()
	repo := New(store, prefix)

	if err := repo.SaveProducts(context.Background(), nil); err != nil {
		t.Fatalf("SaveProducts: %v", err)
	}
	if store.multiCalls != 0 {
		t.Errorf("round trips = %d, want 0", store.multiCalls)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := New(newMemStore(), prefix)

	_, err := repo.GetProduct(context.Background(), "missing")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestListProducts_SortedAndJoined(t *testing.T) {
	repo := New(newMemStore(), prefix)
	seedAisle(t, repo, "a1", "A1", "Grocery", 0, 2)
	seedProduct(t, repo, domain.Product{ID: "p1", Name: "Milk", Category: "Dairy", AisleID: "a1", Shelf: 1})
	seedProduct(t, repo, domain.Product{ID: "p2", Name: "Atta", Category: "Grocery", Shelf: 1})
	seedProduct(t, repo, domain.Product{ID: "p3", Name: "Butter", Category: "Dairy", Shelf: 1})

	products, err := repo.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	// Ordered by category, then name.
	want := []string{"Butter", "Milk", "Atta"}
	for i, name := range want {
		if products[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, products[i].Name)
		}
	}
	for _, p := range products {
		if p.Name == "Milk" && !p.Located() {
			t.Error("Milk should be located in A1")
		}
		if p.Name == "Atta" && p.Located() {
			t.Error("Atta has no aisle and should be unlocated")
		}
	}
}

func TestListProducts_DanglingAisleReference(t *testing.T) {
	repo := New(newMemStore(), prefix)
	seedProduct(t, repo, domain.Product{ID: "p1", Name: "Milk", AisleID: "gone", Shelf: 1})

	products, err := repo.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].Located() {
		t.Error("product with dangling aisle reference must be unlocated")
	}
}

func TestDeleteProduct(t *testing.T) {
	repo := New(newMemStore(), prefix)
	seedProduct(t, repo, domain.Product{ID: "p1", Name: "Milk", Shelf: 1})

	if err := repo.DeleteProduct(context.Background(), "p1"); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if err := repo.DeleteProduct(context.Background(), "p1"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestFilterProducts(t *testing.T) {
	repo := New(newMemStore(), prefix)
	seedProduct(t, repo, domain.Product{ID: "p1", Name: "Amul Milk", Keywords: "doodh", Shelf: 1})
	seedProduct(t, repo, domain.Product{ID: "p2", Name: "Bread", Shelf: 1})

	got, err := repo.FilterProducts(context.Background(), "doodh")
	if err != nil {
		t.Fatalf("FilterProducts: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Amul Milk" {
		t.Fatalf("expected Amul Milk via keyword filter, got %+v", got)
	}
}

func TestCategories(t *testing.T) {
	repo := New(newMemStore(), prefix)
	seedProduct(t, repo, domain.Product{ID: "p1", Name: "Milk", Category: "Dairy", Shelf: 1})
	seedProduct(t, repo, domain.Product{ID: "p2", Name: "Curd", Category: "Dairy", Shelf: 1})
	seedProduct(t, repo, domain.Product{ID: "p3", Name: "Soap", Category: "Personal Care", Shelf: 1})
	seedProduct(t, repo, domain.Product{ID: "p4", Name: "Mystery", Shelf: 1})

	cats, err := repo.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Dairy" || cats[1] != "Personal Care" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}

func TestAisleRoundTrip(t *testing.T) {
	repo := New(newMemStore(), prefix)
	seedAisle(t, repo, "a1", "B2", "Dairy & Frozen", 2, 3)

	a, err := repo.GetAisle(context.Background(), "a1")
	if err != nil {
		t.Fatalf("GetAisle: %v", err)
	}
	if a.Name != "B2" || a.Section != "Dairy & Frozen" || a.Row != 2 || a.Col != 3 {
		t.Errorf("unexpected aisle: %+v", a)
	}

	aisles, err := repo.ListAisles(context.Background())
	if err != nil {
		t.Fatalf("ListAisles: %v", err)
	}
	if len(aisles) != 1 {
		t.Fatalf("expected 1 aisle, got %d", len(aisles))
	}
}

func TestDeleteAisle_NotFound(t *testing.T) {
	repo := New(newMemStore(), prefix)

	if err := repo.DeleteAisle(context.Background(), "nope"); !errors.Is(err, domain.ErrAisleNotFound) {
		t.Fatalf("expected ErrAisleNotFound, got %v", err)
	}
}

func TestCounts(t *testing.T) {
	repo := New(newMemStore(), prefix)
	seedAisle(t, repo, "a1", "A1", "", 0, 0)
	seedProduct(t, repo, domain.Product{ID: "p1", Name: "Milk", Shelf: 1})
	seedProduct(t, repo, domain.Product{ID: "p2", Name: "Bread", Shelf: 1})

	np, err := repo.CountProducts(context.Background())
	if err != nil || np != 2 {
		t.Fatalf("CountProducts = %d, %v; want 2", np, err)
	}
	na, err := repo.CountAisles(context.Background())
	if err != nil || na != 1 {
		t.Fatalf("CountAisles = %d, %v; want 1", na, err)
	}
}
