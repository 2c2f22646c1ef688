package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "fa_ir", want: "fa-IR"},
		{in: " EN-us ", want: "en-US"},
		{in: "ar", want: "ar"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		got := Resolve("fa")
		if got.Name != "فارسی" || !got.RTL {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("normalized match", func(t *testing.T) {
		got := Resolve("fa_af")
		if got.Name != "دری" || !got.RTL {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("base fallback", func(t *testing.T) {
		got := Resolve("ar-SA")
		if got.Name != "العربية" || !got.RTL {
			t.Fatalf("unexpected fallback result: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("zz-ZZ")
		if got.Name != "zz-ZZ" || got.RTL {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}

func TestRTL(t *testing.T) {
	cases := []struct {
		lang string
		want bool
	}{
		{"fa", true},
		{"ar-EG", true},
		{"he", true},
		{"en", false},
		{"fa-IR", true},
		{"tg", false},
	}

	for _, tc := range cases {
		if got := RTL(tc.lang); got != tc.want {
			t.Errorf("RTL(%q) = %v, want %v", tc.lang, got, tc.want)
		}
	}
}
