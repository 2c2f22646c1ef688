package resolver

import (
	"testing"

	"github.com/kalid-tool/kalid/translit"
)

func newResolver() *Resolver {
	return New(Options{
		Synthesis: translit.Options{MaxLength: 50, UseContext: true},
	})
}

func TestResolveEndToEnd(t *testing.T) {
	r := newResolver()

	res, err := r.Resolve("ذخیره", "fa", "btn")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.FinalKey != "btn_save" {
		t.Errorf("FinalKey = %q, want btn_save", res.FinalKey)
	}
	if res.Generated.OriginalText != "ذخیره" {
		t.Errorf("OriginalText = %q", res.Generated.OriginalText)
	}
	if res.Generated.Confidence <= 0 || res.Generated.Confidence > 1 {
		t.Errorf("Confidence = %v, want (0,1]", res.Generated.Confidence)
	}

	// Same text, different context, same run: a distinct key, never a
	// reuse of btn_save.
	res2, err := r.Resolve("ذخیره", "fa", "label")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res2.FinalKey == "btn_save" {
		t.Error("second resolution reused btn_save")
	}
	if res2.FinalKey != "label_save" {
		t.Errorf("FinalKey = %q, want label_save", res2.FinalKey)
	}
	if !res2.ValueCheck.IsDuplicate {
		t.Error("value duplicate not reported for repeated text")
	}
}

func TestResolveSameContextTwice(t *testing.T) {
	r := newResolver()

	first, err := r.Resolve("ذخیره", "fa", "btn")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve("ذخیره", "fa", "btn")
	if err != nil {
		t.Fatal(err)
	}
	if second.FinalKey == first.FinalKey {
		t.Errorf("both resolutions produced %q", first.FinalKey)
	}
}

func TestResolveInvalidCandidateNormalized(t *testing.T) {
	r := New(Options{Synthesis: translit.Options{MaxLength: 50}})

	// Digits-only text synthesizes a digits-only candidate, which the
	// naming rules reject; the final key must still conform.
	res, err := r.Resolve("۱۲۳", "fa", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Validation.IsValid {
		t.Error("digits-only candidate unexpectedly valid")
	}
	if res.FinalKey == "123" {
		t.Errorf("FinalKey = %q, want a repaired key", res.FinalKey)
	}
}

func TestResolveEmptyTextFails(t *testing.T) {
	r := newResolver()
	if _, err := r.Resolve("   ", "fa", ""); err == nil {
		t.Error("expected error for empty text")
	}
	if _, err := r.Resolve("ذخیره", "", ""); err == nil {
		t.Error("expected error for missing locale")
	}
}

func TestResolveBatchUniqueness(t *testing.T) {
	r := New(Options{Synthesis: translit.Options{MaxLength: 50}})

	var matches []TextMatch
	texts := []string{"ذخیره", "حذف", "ویرایش", "ذخیره فایل", "خطا", "پیام جدید"}
	for i, text := range texts {
		matches = append(matches, TextMatch{Text: text, File: "app.vue", Line: i + 1})
	}
	// Two distinct texts that collide after transliteration.
	matches = append(matches,
		TextMatch{Text: "ذخیره!", File: "app.vue", Line: 100},
	)

	keys, warnings := r.ResolveBatch("fa", matches)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(keys) != len(matches) {
		t.Fatalf("got %d keys for %d matches", len(keys), len(matches))
	}

	seen := make(map[string]bool)
	for _, k := range keys {
		if seen[k.Key] {
			t.Errorf("duplicate key %q in batch result", k.Key)
		}
		seen[k.Key] = true
	}
	if keys[0].File != "app.vue" || keys[0].Line != 1 {
		t.Errorf("source location not carried: %+v", keys[0])
	}
}

func TestResolveBatchBadItemContinues(t *testing.T) {
	r := newResolver()

	matches := []TextMatch{
		{Text: "ذخیره", Context: "btn", File: "a.vue", Line: 1},
		{Text: "!!!", File: "a.vue", Line: 2}, // nothing resolvable
		{Text: "حذف", Context: "btn", File: "a.vue", Line: 3},
	}
	keys, warnings := r.ResolveBatch("fa", matches)
	if len(keys) != 3 {
		t.Fatalf("got %d keys, want 3 (bad item must not abort the batch)", len(keys))
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	// The bad item falls back to the unvalidated synthesized key.
	if keys[1].Key != translit.FallbackKey {
		t.Errorf("fallback key = %q, want %q", keys[1].Key, translit.FallbackKey)
	}
	if keys[2].Key != "btn_delete" {
		t.Errorf("third key = %q, want btn_delete", keys[2].Key)
	}
}

func TestResolveBatchBadItemsGetDistinctKeys(t *testing.T) {
	r := newResolver()

	matches := []TextMatch{
		{Text: "!!!", File: "a.vue", Line: 1},
		{Text: "???", File: "a.vue", Line: 2},
	}
	keys, warnings := r.ResolveBatch("fa", matches)
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(keys))
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want two", warnings)
	}
	if keys[0].Key != translit.FallbackKey {
		t.Errorf("first fallback = %q, want %q", keys[0].Key, translit.FallbackKey)
	}
	if keys[1].Key != translit.FallbackKey+"_2" {
		t.Errorf("second fallback = %q, want %q", keys[1].Key, translit.FallbackKey+"_2")
	}
}

func TestLoadExistingBlocksReuse(t *testing.T) {
	r := newResolver()
	r.LoadExisting(map[string]map[string]string{
		"fa": {"btn_save": "چیز دیگری"},
	})

	res, err := r.Resolve("ذخیره", "fa", "btn")
	if err != nil {
		t.Fatal(err)
	}
	if res.FinalKey == "btn_save" {
		t.Error("existing key reused")
	}
	if !res.KeyCheck.IsDuplicate {
		t.Error("collision with existing key not reported")
	}
}

func TestReset(t *testing.T) {
	r := newResolver()

	first, err := r.Resolve("ذخیره", "fa", "btn")
	if err != nil {
		t.Fatal(err)
	}
	r.Reset()
	again, err := r.Resolve("ذخیره", "fa", "btn")
	if err != nil {
		t.Fatal(err)
	}
	if again.FinalKey != first.FinalKey {
		t.Errorf("after Reset: %q, want %q as in a fresh run", again.FinalKey, first.FinalKey)
	}
}

func TestResolveManyDistinct(t *testing.T) {
	r := New(Options{Synthesis: translit.Options{MaxLength: 50}})

	seen := make(map[string]bool)
	for i := 0; i < 30; i++ {
		// Same text every time; each resolution must still mint a new key.
		res, err := r.Resolve("پیام", "fa", "")
		if err != nil {
			t.Fatal(err)
		}
		if seen[res.FinalKey] {
			t.Fatalf("iteration %d reused key %q", i, res.FinalKey)
		}
		seen[res.FinalKey] = true
	}
	if len(seen) != 30 {
		t.Errorf("got %d distinct keys, want 30", len(seen))
	}
}
