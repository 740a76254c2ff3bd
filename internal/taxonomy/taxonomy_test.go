package taxonomy

import "testing"

func TestTablesAreWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, rule := range CategoryRules {
		if rule.ProductType == "" {
			t.Error("rule with empty product type")
		}
		if len(rule.Keywords) == 0 {
			t.Errorf("rule %q has no keywords", rule.ProductType)
		}
		if seen[rule.ProductType] {
			t.Errorf("duplicate rule for %q", rule.ProductType)
		}
		seen[rule.ProductType] = true
	}
}

func TestMainCategoryFor(t *testing.T) {
	tests := []struct {
		productType string
		want        string
	}{
		{"Shampoo", "Hair Care"},
		{"Mask/Deep Conditioner", "Hair Care"},
		{"Face Serum", "Skin Care"},
		{"Body Wash", "Body Care"},
		{"Beard Care", "Men's Care"},
		{"Vitamins", "Vitamins & Supplements"},
		{"Scented Candle", "Home Care"},
		{"Something Unknown", "Other"},
		{"", "Other"},
	}

	for _, tt := range tests {
		if got := MainCategoryFor(tt.productType); got != tt.want {
			t.Errorf("MainCategoryFor(%q) = %q, want %q", tt.productType, got, tt.want)
		}
	}
}

func TestEveryRuleTypeHasMainCategory(t *testing.T) {
	for _, rule := range CategoryRules {
		if MainCategoryFor(rule.ProductType) == "Other" {
			t.Errorf("rule %q resolves to Other; add it to the category map", rule.ProductType)
		}
	}
}

func TestDetectForm(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"moisturizing hair oil blend", "oil"},
		{"curl defining cream", "cream"},
		{"strong hold styling gel", "gel"},
		{"sea salt spray", "spray"},
		{"clarifying shampoo", "liquid"},
		{"cotton headwrap", ""},
	}

	for _, tt := range tests {
		if got := DetectForm(tt.text); got != tt.want {
			t.Errorf("DetectForm(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetectIngredients(t *testing.T) {
	got := DetectIngredients("whipped shea butter with jamaican black castor oil and honey")
	want := []string{"shea butter", "jamaican black castor oil", "castor oil", "honey"}
	if len(got) != len(want) {
		t.Fatalf("ingredients = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ingredient[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if DetectIngredients("plain water") != nil {
		t.Error("expected no ingredients for plain water")
	}
}

func TestBrandVariantsAreLowercase(t *testing.T) {
	for _, brand := range BrandVariants {
		for _, r := range brand.Variant {
			if r >= 'A' && r <= 'Z' {
				t.Errorf("brand variant %q must be lowercase", brand.Variant)
			}
		}
	}
}
