package main

import (
	"strings"
	"testing"
)

func TestLocaleLabel(t *testing.T) {
	cases := []struct {
		locale string
		want   string
	}{
		{"fa", "فارسی, RTL"},
		{"en", "English"},
		{"fa-IR", "فارسی, RTL"},
		{"zz", "zz"},
	}

	for _, tc := range cases {
		if got := localeLabel(tc.locale); got != tc.want {
			t.Errorf("localeLabel(%q) = %q, want %q", tc.locale, got, tc.want)
		}
	}
}

func TestRootCmdWiring(t *testing.T) {
	root := newRootCmd()

	want := []string{"status", "resolve", "scan", "consolidate", "backup", "version"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	if root.PersistentFlags().Lookup("root") == nil {
		t.Error("persistent --root flag not registered")
	}
}

func TestBackupSubcommands(t *testing.T) {
	cmd := newBackupCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	joined := strings.Join(names, ",")
	for _, name := range []string{"create", "list", "restore", "delete", "cleanup"} {
		if !strings.Contains(joined, name) {
			t.Errorf("backup subcommand %q not registered (have %s)", name, joined)
		}
	}
}
