package rank

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestBuiltinVariantWeightsSumToOne(t *testing.T) {
	for _, name := range VariantNames() {
		w, ok := WeightsFor(Variant(name))
		if !ok {
			t.Fatalf("WeightsFor(%s) missing", name)
		}
		if err := w.Validate(); err != nil {
			t.Errorf("variant %s: %v", name, err)
		}
	}
}

func TestRegisterVariant(t *testing.T) {
	t.Run("rejects weights not summing to one", func(t *testing.T) {
		err := RegisterVariant("broken_v1", Weights{Topic: 0.5, Recency: 0.5, Engagement: 0.5})
		if err == nil {
			t.Fatal("RegisterVariant() = nil, want error")
		}
		if _, ok := WeightsFor("broken_v1"); ok {
			t.Error("invalid variant must not be registered")
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		if err := RegisterVariant("", Weights{Topic: 1}); err == nil {
			t.Fatal("RegisterVariant() = nil, want error")
		}
	})

	t.Run("registers a valid variant", func(t *testing.T) {
		want := Weights{Topic: 0.7, Recency: 0.1, Engagement: 0.1, Follow: 0.1}
		if err := RegisterVariant("affinity_heavy_v1", want); err != nil {
			t.Fatalf("RegisterVariant() error = %v", err)
		}
		got, ok := WeightsFor("affinity_heavy_v1")
		if !ok || got != want {
			t.Errorf("WeightsFor() = (%v, %v), want (%v, true)", got, ok, want)
		}
	})
}

func TestVariantNamesSorted(t *testing.T) {
	names := VariantNames()
	if !sortedStrings(names) {
		t.Errorf("VariantNames() = %v, want sorted", names)
	}
	found := false
	for _, n := range names {
		if n == string(VariantTopicsV1) {
			found = true
		}
	}
	if !found {
		t.Errorf("VariantNames() = %v, missing %s", names, VariantTopicsV1)
	}
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestLoadVariants(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.yaml")
	doc := `variants:
  topics_loaded_v1:
    topic: 0.25
    recency: 0.25
    engagement: 0.25
    follow: 0.25
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := LoadVariants(path); err != nil {
		t.Fatalf("LoadVariants() error = %v", err)
	}
	got, ok := WeightsFor("topics_loaded_v1")
	want := Weights{Topic: 0.25, Recency: 0.25, Engagement: 0.25, Follow: 0.25}
	if !ok || !reflect.DeepEqual(got, want) {
		t.Errorf("WeightsFor() = (%v, %v), want (%v, true)", got, ok, want)
	}

	t.Run("invalid weights fail the whole load", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(bad, []byte("variants:\n  oops:\n    topic: 0.9\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := LoadVariants(bad); err == nil {
			t.Error("LoadVariants() = nil, want error")
		}
	})
}
