package interactive

import (
	"testing"

	"github.com/maginium/installer/pkg/catalog"
)

func testLoader(t *testing.T) *OptionLoader {
	t.Helper()
	catalogs, err := catalog.LoadAll()
	if err != nil {
		t.Fatalf("failed to load catalogs: %v", err)
	}
	return NewOptionLoader(catalogs)
}

// TestLoadOptions tests loading options from catalogs.
func TestLoadOptions(t *testing.T) {
	loader := testLoader(t)

	tests := []struct {
		source   string
		contains string
		wantErr  bool
	}{
		{source: catalog.Currency, contains: "USD"},
		{source: catalog.Language, contains: "en_US"},
		{source: catalog.Timezone, contains: "UTC"},
		{source: "planets", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			options, err := loader.LoadOptions(tt.source)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			found := false
			for _, o := range options {
				if o == tt.contains {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("LoadOptions(%q) does not contain %q", tt.source, tt.contains)
			}
		})
	}
}

func TestNewOptionLoader_Nil(t *testing.T) {
	loader := NewOptionLoader(nil)
	if loader.Has(catalog.Currency) {
		t.Error("empty loader should not know any source")
	}
}

func TestOptionLoader_Validate(t *testing.T) {
	loader := testLoader(t)

	if err := loader.Validate(catalog.Currency, "EUR"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := loader.Validate(catalog.Currency, "XXX-nope"); err == nil {
		t.Error("expected error for unknown code")
	}
	if err := loader.Validate("planets", "x"); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestPromptFromSource(t *testing.T) {
	loader := testLoader(t)
	spec := &PromptSpec{Name: "currency", Message: "Currency?", Default: "USD"}

	got, err := PromptFromSource(spec, catalog.Currency, loader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindSearch {
		t.Errorf("Kind = %q, want %q", got.Kind, KindSearch)
	}
	if len(got.Options) == 0 {
		t.Error("expected options from the catalog")
	}
	if spec.Options != nil {
		t.Error("input spec must not be modified")
	}

	same, err := PromptFromSource(spec, "", loader)
	if err != nil || same != spec {
		t.Errorf("no source should return the spec unchanged, got %v, %v", same, err)
	}

	if _, err := PromptFromSource(spec, "planets", loader); err == nil {
		t.Error("expected error for unknown source")
	}
}
