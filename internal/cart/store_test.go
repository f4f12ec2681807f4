package cart

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
)

func item(name string, price float64, c models.Category) models.MenuItem {
	return models.MenuItem{Name: name, Price: models.MoneyFromFloat(price), Category: c}
}

func TestStore_AddCreatesDistinctLines(t *testing.T) {
	s := NewStore()
	burger := item("Burger", 50, models.CategoryMains)

	first := s.Add(burger)
	second := s.Add(burger)

	if first.ID == second.ID {
		t.Fatalf("expected distinct line ids, got %q twice", first.ID)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if s.TotalItems() != 2 {
		t.Errorf("TotalItems() = %d, want 2", s.TotalItems())
	}
	for _, l := range s.Lines() {
		if l.Quantity != 1 {
			t.Errorf("line %s quantity = %d, want 1", l.ID, l.Quantity)
		}
	}
}

func TestStore_IncrementDecrement(t *testing.T) {
	s := NewStore()
	line := s.Add(item("Soup", 25, models.CategoryStarters))

	if err := s.Increment(line.ID); err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if got := s.TotalItems(); got != 2 {
		t.Errorf("TotalItems() = %d, want 2", got)
	}

	if err := s.Decrement(line.ID); err != nil {
		t.Fatalf("Decrement() error = %v", err)
	}
	if err := s.Decrement(line.ID); err != nil {
		t.Fatalf("Decrement() error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected line removed at quantity 0, Len() = %d", s.Len())
	}

	if err := s.Decrement(line.ID); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("Decrement() on removed line error = %v, want ErrLineNotFound", err)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := NewStore()
	s.Add(item("Cake", 30, models.CategoryDesserts))

	tests := []struct {
		name string
		op   func(string) error
	}{
		{"increment", s.Increment},
		{"decrement", s.Decrement},
		{"remove", s.Remove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op("missing"); !errors.Is(err, ErrLineNotFound) {
				t.Errorf("error = %v, want ErrLineNotFound", err)
			}
			if s.TotalItems() != 1 {
				t.Errorf("cart changed on missing line, TotalItems() = %d", s.TotalItems())
			}
		})
	}
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := NewStore()
	a := s.Add(item("A", 1, models.CategoryStarters))
	s.Add(item("B", 2, models.CategoryMains))
	_ = s.Increment(a.ID)

	if err := s.Remove(a.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if s.Len() != 1 || s.Lines()[0].Name != "B" {
		t.Errorf("unexpected lines after remove: %+v", s.Lines())
	}

	s.Clear()
	if s.Len() != 0 || s.TotalItems() != 0 {
		t.Errorf("expected empty cart after Clear, got %d lines", s.Len())
	}
}

func TestFilterAndCount(t *testing.T) {
	s := NewStore()
	s.Add(item("Soup", 25, models.CategoryStarters))
	s.Add(item("Steak", 50, models.CategoryMains))
	s.Add(item("Salad", 20, models.CategoryStarters))
	s.Add(item("Pie", 30, models.CategoryDesserts))

	tests := []struct {
		filter models.Category
		want   []string
	}{
		{models.CategoryAll, []string{"Soup", "Steak", "Salad", "Pie"}},
		{models.CategoryStarters, []string{"Soup", "Salad"}},
		{models.CategoryMains, []string{"Steak"}},
		{models.CategoryDesserts, []string{"Pie"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			lines := Filter(s.Lines(), tt.filter)
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(lines), len(tt.want))
			}
			for i, name := range tt.want {
				if lines[i].Name != name {
					t.Errorf("lines[%d] = %s, want %s", i, lines[i].Name, name)
				}
			}
			if got := Count(s.Lines(), tt.filter); got != len(tt.want) {
				t.Errorf("Count() = %d, want %d", got, len(tt.want))
			}
		})
	}
}

func TestStore_LinesAreCopies(t *testing.T) {
	s := NewStore()
	s.Add(item("Soup", 25, models.CategoryStarters))

	lines := s.Lines()
	lines[0].Quantity = 99

	if s.TotalItems() != 1 {
		t.Errorf("mutating a snapshot changed the store")
	}
}

func TestAverageAndSubtotal(t *testing.T) {
	s := NewStore()
	if !Average(s.Lines(), models.CategoryAll).IsZero() {
		t.Errorf("Average() on empty cart = %s, want 0", Average(s.Lines(), models.CategoryAll))
	}

	s.Add(item("A", 10, models.CategoryStarters))
	b := s.Add(item("B", 40, models.CategoryMains))
	_ = s.Increment(b.ID)
	lines := s.Lines()

	tests := []struct {
		filter       models.Category
		wantSubtotal string
		wantAverage  string
	}{
		// (10 + 80) / 3
		{models.CategoryAll, "90.00", "30.00"},
		{models.CategoryStarters, "10.00", "10.00"},
		{models.CategoryMains, "80.00", "40.00"},
		{models.CategoryDesserts, "0.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			if got := Subtotal(lines, tt.filter).StringFixed(2); got != tt.wantSubtotal {
				t.Errorf("Subtotal() = %s, want %s", got, tt.wantSubtotal)
			}
			if got := Average(lines, tt.filter).StringFixed(2); got != tt.wantAverage {
				t.Errorf("Average() = %s, want %s", got, tt.wantAverage)
			}
		})
	}
}

func TestStore_RemoveLinesKeepsOthers(t *testing.T) {
	s := NewStore()
	soup := s.Add(item("Soup", 25, models.CategoryStarters))
	steak := s.Add(item("Steak", 50, models.CategoryMains))
	submitted := []string{soup.ID, steak.ID}

	late := s.Add(item("Cake", 30, models.CategoryDesserts))

	left := s.RemoveLines(append(submitted, "gone"))
	if len(left) != 1 || left[0].ID != late.ID {
		t.Fatalf("RemoveLines() left %+v, want only %s", left, late.ID)
	}
	if s.Len() != 1 || s.Lines()[0].ID != late.ID {
		t.Errorf("store holds %+v, want only the late line", s.Lines())
	}

	left[0].Quantity = 99
	if s.TotalItems() != 1 {
		t.Error("RemoveLines result should be a copy")
	}
}

func TestStore_Restore(t *testing.T) {
	s := NewStore()
	s.Add(item("Old", 1, models.CategoryMains))

	s.Restore([]models.CartLine{
		{ID: "a", Name: "Soup", Price: models.MoneyFromFloat(25), Quantity: 2, Category: "starters"},
		{ID: "b", Name: "Ghost", Price: models.MoneyFromFloat(5), Quantity: 0, Category: models.CategoryMains},
		{Name: "Mystery", Price: models.MoneyFromFloat(10), Quantity: 1},
	})

	lines := s.Lines()
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Category != models.CategoryStarters {
		t.Errorf("category not normalized: %s", lines[0].Category)
	}
	if lines[1].ID == "" {
		t.Error("missing id was not regenerated")
	}
	if lines[1].Category != models.CategoryDesserts {
		t.Errorf("missing category = %s, want Desserts by position", lines[1].Category)
	}
}

// TestStore_TotalItemsMatchesQuantities runs random operation sequences and
// checks the running count against the lines actually present.
func TestStore_TotalItemsMatchesQuantities(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cats := models.Categories

	for run := 0; run < 50; run++ {
		s := NewStore()
		var ids []string

		for step := 0; step < 200; step++ {
			switch op := rng.Intn(4); {
			case op == 0 || len(ids) == 0:
				l := s.Add(item("x", 1, cats[rng.Intn(len(cats))]))
				ids = append(ids, l.ID)
			case op == 1:
				_ = s.Increment(ids[rng.Intn(len(ids))])
			case op == 2:
				_ = s.Decrement(ids[rng.Intn(len(ids))])
			default:
				_ = s.Remove(ids[rng.Intn(len(ids))])
			}

			sum := 0
			for _, l := range s.Lines() {
				if l.Quantity < 1 {
					t.Fatalf("line %s has quantity %d", l.ID, l.Quantity)
				}
				sum += l.Quantity
			}
			if got := s.TotalItems(); got != sum || got < 0 {
				t.Fatalf("TotalItems() = %d, sum of lines = %d", got, sum)
			}
		}
	}
}
