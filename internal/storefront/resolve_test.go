package storefront

import (
	"testing"

	"github.com/shonra/storefront_api/internal/models"
)

func TestResolveCategory(t *testing.T) {
	cats := []models.Category{
		{ID: 1, Name: "Fashion"},
		{ID: 2, Name: "Elektronik"},
		{ID: 3, Name: "Rumah Tangga"},
	}
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", models.AllCategory, true},
		{"ALL", models.AllCategory, true},
		{"2", "2", true},
		{"fashion", "1", true},
		{"elektro", "2", true},
		{"rumah", "3", true},
		{"zzz", "", false},
	}
	for _, tc := range cases {
		got, ok := ResolveCategory(tc.in, cats)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ResolveCategory(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResolveTag(t *testing.T) {
	tags := []models.Tag{{ID: 5, Name: "Promo"}, {ID: 9, Name: "Best Seller"}}
	if id, ok := ResolveTag("promo", tags); !ok || id != 5 {
		t.Fatalf("ResolveTag(promo) = %d, %v", id, ok)
	}
	if id, ok := ResolveTag("seller", tags); !ok || id != 9 {
		t.Fatalf("ResolveTag(seller) = %d, %v", id, ok)
	}
	if _, ok := ResolveTag("nothing", tags); ok {
		t.Fatal("unknown tag should not resolve")
	}
}

func TestFilterCategories(t *testing.T) {
	cats := []models.Category{{ID: 1, Name: "Fashion Pria"}, {ID: 2, Name: "Fashion Wanita"}, {ID: 3, Name: "Gadget"}}
	if got := FilterCategories("fashion", cats); len(got) != 2 {
		t.Fatalf("expected 2 fashion categories, got %v", got)
	}
	if got := FilterCategories("", cats); len(got) != 3 {
		t.Fatal("blank filter keeps everything")
	}
}
