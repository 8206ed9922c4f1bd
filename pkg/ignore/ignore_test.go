package ignore

import (
	"testing"
)

func TestCompile(t *testing.T) {
	t.Run("EmptySpec", func(t *testing.T) {
		f, err := Compile("")
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if f.Len() != 0 {
			t.Errorf("Len() = %d, want 0", f.Len())
		}
		if f.Match("anything") {
			t.Error("empty filter should match nothing")
		}
	})

	t.Run("SkipsEmptyFragments", func(t *testing.T) {
		f, err := Compile("foo,, bar ,")
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if f.Len() != 2 {
			t.Errorf("Len() = %d, want 2", f.Len())
		}
	})

	t.Run("InvalidPattern", func(t *testing.T) {
		if _, err := Compile("valid,["); err == nil {
			t.Error("Compile() should fail on an invalid pattern")
		}
	})
}

func TestFilterMatch(t *testing.T) {
	f, err := Compile(`\.tmp$,node_modules,^build/`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"file.tmp", true},
		{"dir/file.tmp", true},
		{"file.tmpx", false},
		{"node_modules", true},
		{"src/node_modules/pkg/index.js", true},
		{"build/out.bin", true},
		{"src/build/out.bin", false},
		{"src/main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := f.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFilterNil(t *testing.T) {
	var f *Filter
	if f.Match("anything") {
		t.Error("nil filter should match nothing")
	}
	if f.Len() != 0 {
		t.Errorf("nil filter Len() = %d, want 0", f.Len())
	}
}
