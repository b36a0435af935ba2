package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jgoulah/ecohome/internal/config"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestParseHouseholdID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseHouseholdID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseHouseholdID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseHouseholdID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCommandsAgainstDatabase(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	db := filepath.Join(dir, "data", "test.db")

	if err := execute(t, "--db", db, "register", "Smith", "6000"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := execute(t, "--db", db, "add", "1", "water", "120", "--at", "2026-10-18T07:00:00Z"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := execute(t, "--db", db, "add", "1", "gas", "3"); err == nil {
		t.Error("expected add to reject an unknown entry type")
	}
	if err := execute(t, "--db", db, "add", "2", "water", "3"); err == nil {
		t.Error("expected add to reject an unknown household")
	}

	in := filepath.Join(dir, "in.csv")
	csvData := "recorded_at,value,entry_type\n2026-10-17T07:00:00Z,9.5,energy\n"
	if err := os.WriteFile(in, []byte(csvData), 0600); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--db", db, "import", "1", in); err != nil {
		t.Fatalf("import: %v", err)
	}

	out := filepath.Join(dir, "out.csv")
	if err := execute(t, "--db", db, "export", "1", "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "id,entry_type,value,recorded_at\n" +
		"2,energy,9.5,2026-10-17T07:00:00Z\n" +
		"1,water,120,2026-10-18T07:00:00Z\n"
	if string(got) != want {
		t.Errorf("unexpected export:\n%s\nwant:\n%s", got, want)
	}

	if err := execute(t, "--db", db, "score", "1"); err != nil {
		t.Errorf("score: %v", err)
	}
	if err := execute(t, "--db", db, "score", "nope"); err == nil || !strings.Contains(err.Error(), "invalid household id") {
		t.Errorf("expected invalid id error, got %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "conf", "ecohome.yaml")

	if err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if cfg.GetAddr() != ":5000" || cfg.GetTopicPrefix() != "ecohome" || cfg.MQTT.Enabled || cfg.HomeAssistant.Enabled {
		t.Errorf("unexpected starter config: %+v", cfg)
	}

	if err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("expected config init to refuse an existing file")
	}
	if err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
