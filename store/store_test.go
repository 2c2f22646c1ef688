package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadMissingFile(t *testing.T) {
	s := New(t.TempDir())

	entries, err := s.Read("fa")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want empty", entries)
	}
}

func TestWriteAndRead(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "locales"))

	want := map[string]string{
		"btn_save":   "ذخیره",
		"btn_cancel": "لغو",
		"title_home": "خانه",
	}
	if err := s.Write("fa", want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := s.Read("fa")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("got[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestWriteCanonicalFormat(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Write("fa", map[string]string{"b": "2", "a": "1"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(s.Path("fa"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := "{\n  \"a\": \"1\",\n  \"b\": \"2\"\n}\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestWriteEmpty(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Write("fa", nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, _ := os.ReadFile(s.Path("fa"))
	if string(data) != "{}\n" {
		t.Errorf("file = %q, want {}\\n", data)
	}
}

func TestWriteDeterministic(t *testing.T) {
	s := New(t.TempDir())
	entries := map[string]string{"z": "1", "m": "2", "a": "3"}

	if err := s.Write("fa", entries); err != nil {
		t.Fatalf("Write: %v", err)
	}
	first, _ := os.ReadFile(s.Path("fa"))

	if err := s.Write("fa", entries); err != nil {
		t.Fatalf("Write: %v", err)
	}
	second, _ := os.ReadFile(s.Path("fa"))

	if string(first) != string(second) {
		t.Error("repeated writes produced different bytes")
	}
}

func TestUpdateMerges(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Write("fa", map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	added, replaced, err := s.Update("fa", map[string]string{"b": "20", "c": "3"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if added != 1 || replaced != 1 {
		t.Errorf("added=%d replaced=%d, want 1 and 1", added, replaced)
	}

	got, _ := s.Read("fa")
	if got["a"] != "1" || got["b"] != "20" || got["c"] != "3" {
		t.Errorf("entries = %v after update", got)
	}
}

func TestReadMalformed(t *testing.T) {
	s := New(t.TempDir())
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path("fa"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Read("fa")
	var se *StructureError
	if !errors.As(err, &se) {
		t.Fatalf("Read error = %v, want StructureError", err)
	}
	if !strings.Contains(se.Path, "fa.json") {
		t.Errorf("StructureError.Path = %q, want the failing file", se.Path)
	}
}

func TestReadNonStringValue(t *testing.T) {
	s := New(t.TempDir())
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		t.Fatal(err)
	}
	content := `{"ok": "fine", "bad": 42, "worse": {"nested": true}}`
	if err := os.WriteFile(s.Path("fa"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Read("fa")
	var se *StructureError
	if !errors.As(err, &se) {
		t.Fatalf("Read error = %v, want StructureError", err)
	}
	if !strings.Contains(se.Reason, `"bad"`) {
		t.Errorf("Reason = %q, want the offending key named", se.Reason)
	}
}

func TestValidateStructure(t *testing.T) {
	s := New(t.TempDir())
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		t.Fatal(err)
	}

	// Missing file: trivially valid.
	rep, err := s.ValidateStructure("fa")
	if err != nil || !rep.IsValid {
		t.Errorf("missing file: report=%+v err=%v, want valid", rep, err)
	}

	// Valid file.
	if err := s.Write("fa", map[string]string{"a": "1"}); err != nil {
		t.Fatal(err)
	}
	rep, err = s.ValidateStructure("fa")
	if err != nil || !rep.IsValid {
		t.Errorf("valid file: report=%+v err=%v", rep, err)
	}

	// Non-string values reported per key.
	if err := os.WriteFile(s.Path("de"), []byte(`{"a": 1, "b": "x", "c": null}`), 0644); err != nil {
		t.Fatal(err)
	}
	rep, err = s.ValidateStructure("de")
	if err != nil {
		t.Fatalf("ValidateStructure: %v", err)
	}
	if rep.IsValid || len(rep.Errors) != 2 {
		t.Errorf("report = %+v, want 2 structural errors", rep)
	}

	// Not an object at all.
	if err := os.WriteFile(s.Path("ru"), []byte(`["a"]`), 0644); err != nil {
		t.Fatal(err)
	}
	rep, err = s.ValidateStructure("ru")
	if err != nil {
		t.Fatalf("ValidateStructure: %v", err)
	}
	if rep.IsValid {
		t.Error("array document reported as valid")
	}
}

func TestLocales(t *testing.T) {
	s := New(t.TempDir())

	// Empty (even missing) directory: no locales, no error.
	locales, err := s.Locales()
	if err != nil || locales != nil {
		t.Errorf("Locales = %v, %v; want nil, nil", locales, err)
	}

	for _, loc := range []string{"fa", "en", "de"} {
		if err := s.Write(loc, map[string]string{"k": "v"}); err != nil {
			t.Fatal(err)
		}
	}
	// Hidden entries (like .backups) are not locales.
	if err := os.MkdirAll(filepath.Join(s.Dir(), ".backups"), 0755); err != nil {
		t.Fatal(err)
	}

	locales, err = s.Locales()
	if err != nil {
		t.Fatalf("Locales: %v", err)
	}
	want := []string{"de", "en", "fa"}
	if len(locales) != 3 || locales[0] != want[0] || locales[1] != want[1] || locales[2] != want[2] {
		t.Errorf("Locales = %v, want %v", locales, want)
	}
}
