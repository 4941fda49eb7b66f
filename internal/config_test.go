package internal

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid", 3000, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too high", 70000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := HTTPConfig{Port: tt.port}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 8080}
	if got := cfg.Address(); got != ":8080" {
		t.Errorf("Address() = %q, want %q", got, ":8080")
	}
}

func TestBookConfig_RequiresAllPaths(t *testing.T) {
	cfg := BookConfig{Root: ".", Src: "src", Teachers: "teachers", Out: "book"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("complete book config should validate: %v", err)
	}

	for _, clear := range []func(*BookConfig){
		func(c *BookConfig) { c.Root = "" },
		func(c *BookConfig) { c.Src = "" },
		func(c *BookConfig) { c.Teachers = "" },
		func(c *BookConfig) { c.Out = "" },
	} {
		c := cfg
		clear(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("book config %+v should fail validation", c)
		}
	}
}

func TestBookConfig_DerivedDirs(t *testing.T) {
	cfg := BookConfig{Root: "/srv/book", Src: "src", Teachers: "teachers", Out: "book"}
	if got, want := cfg.SrcDir(), filepath.Join("/srv/book", "src"); got != want {
		t.Errorf("SrcDir() = %q, want %q", got, want)
	}
	if got, want := cfg.TeachersDir(), filepath.Join("/srv/book", "teachers"); got != want {
		t.Errorf("TeachersDir() = %q, want %q", got, want)
	}
}

func TestFullConfig_SQLiteValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch sqlite error")
	}
}
