package scanner

import (
	"strings"
	"testing"

	"github.com/kalid-tool/kalid/dedup"
	"github.com/kalid-tool/kalid/store"
)

func newStore(t *testing.T, locales map[string]map[string]string) *store.Store {
	t.Helper()
	st := store.New(t.TempDir())
	for loc, entries := range locales {
		if err := st.Write(loc, entries); err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func TestScanPartitionsDuplicates(t *testing.T) {
	st := newStore(t, map[string]map[string]string{
		"fa": {"a": "x", "b": "x", "c": "y"},
	})

	rep, err := New(st).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if rep.TotalDuplicates != 1 {
		t.Fatalf("TotalDuplicates = %d, want 1", rep.TotalDuplicates)
	}
	groups := rep.ByLocale["fa"]
	if len(groups) != 1 {
		t.Fatalf("groups = %+v, want one", groups)
	}
	g := groups[0]
	if g.Value != "x" || len(g.Keys) != 2 || g.Keys[0] != "a" || g.Keys[1] != "b" {
		t.Errorf("group = %+v, want value x under keys [a b]", g)
	}
	if len(rep.Suggestions) != 1 || !strings.Contains(rep.Suggestions[0], `"x"`) {
		t.Errorf("Suggestions = %v", rep.Suggestions)
	}
}

func TestScanNormalizedEquality(t *testing.T) {
	st := newStore(t, map[string]map[string]string{
		"fa": {"save_btn": "ذخیره", "confirm_save": "  ذخیره! "},
	})

	rep, err := New(st).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if rep.TotalDuplicates != 1 {
		t.Errorf("TotalDuplicates = %d, want 1 (values equal after normalization)", rep.TotalDuplicates)
	}
}

func TestScanCleanStore(t *testing.T) {
	st := newStore(t, map[string]map[string]string{
		"fa": {"a": "x", "b": "y"},
		"en": {"a": "one"},
	})

	rep, err := New(st).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if rep.TotalDuplicates != 0 || len(rep.ByLocale) != 0 {
		t.Errorf("report = %+v, want no duplicates", rep)
	}
}

func TestApplyConsolidate(t *testing.T) {
	st := newStore(t, map[string]map[string]string{
		"fa": {"save_btn": "ذخیره", "confirm_save": "ذخیره", "other": "دیگر"},
	})
	sc := New(st)

	dup := dedup.DuplicateValue{
		Value:  "ذخیره",
		Keys:   []string{"confirm_save", "save_btn"},
		Locale: "fa",
	}
	if err := sc.Apply("fa", dup, Consolidate{TargetKey: "save_btn"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	entries, err := st.Read("fa")
	if err != nil {
		t.Fatal(err)
	}
	if entries["save_btn"] != "ذخیره" {
		t.Errorf("save_btn = %q, want the duplicated value", entries["save_btn"])
	}
	if _, ok := entries["confirm_save"]; ok {
		t.Error("confirm_save survived consolidation")
	}
	if entries["other"] != "دیگر" {
		t.Error("unrelated entry disturbed")
	}
}

func TestApplyConsolidateBadTarget(t *testing.T) {
	st := newStore(t, map[string]map[string]string{"fa": {"a": "x", "b": "x"}})

	dup := dedup.DuplicateValue{Value: "x", Keys: []string{"a", "b"}, Locale: "fa"}
	if err := New(st).Apply("fa", dup, Consolidate{TargetKey: "zzz"}); err == nil {
		t.Error("expected error for target outside the group")
	}
}

func TestApplyRename(t *testing.T) {
	st := newStore(t, map[string]map[string]string{"fa": {"a": "x", "b": "x"}})

	dup := dedup.DuplicateValue{Value: "x", Keys: []string{"a", "b"}, Locale: "fa"}
	if err := New(st).Apply("fa", dup, Rename{NewKey: "shared_x"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	entries, err := st.Read("fa")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries["shared_x"] != "x" {
		t.Errorf("entries = %v, want only shared_x", entries)
	}
}

func TestApplyKeepSeparate(t *testing.T) {
	st := newStore(t, map[string]map[string]string{"fa": {"a": "x", "b": "x"}})

	dup := dedup.DuplicateValue{Value: "x", Keys: []string{"a", "b"}, Locale: "fa"}
	if err := New(st).Apply("fa", dup, KeepSeparate{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	entries, err := st.Read("fa")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %v, want untouched store", entries)
	}
}
