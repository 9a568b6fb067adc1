package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestCompile_Cache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	first, err := Compile("${name}.go")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	second, err := Compile("${name}.go")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if first != second {
		t.Error("expected cached template to be reused")
	}

	if first.Source() != "${name}.go" {
		t.Errorf("Source() = %q", first.Source())
	}

	ClearCache()

	third, err := Compile("${name}.go")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if third == first {
		t.Error("expected a fresh template after ClearCache")
	}
}

func TestCompile_CachedError(t *testing.T) {
	t.Cleanup(ClearCache)

	for range 2 {
		_, err := Compile("${unclosed")
		if !errors.Is(err, ErrExpectedCloseBracket) {
			t.Errorf("error = %v, want %v", err, ErrExpectedCloseBracket)
		}
	}
}

func TestTemplate_Execute(t *testing.T) {
	tests := []struct {
		source string
		static bool
		want   string
	}{
		{"main.go", true, "main.go"},
		{"", true, ""},
		{"cmd/${name}/main.go", false, "cmd/tool/main.go"},
		{"${_WINDOWS ? 'run.bat' : 'run.sh'}", false, "run.sh"},
		{"${missing}", false, ""},
	}

	s := testScope(t, Vars{"name": "tool"}, nil)

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tmpl, err := Compile(tt.source)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}

			if tmpl.Static() != tt.static {
				t.Errorf("Static() = %v, want %v", tmpl.Static(), tt.static)
			}

			var sb strings.Builder

			err = tmpl.Execute(&sb, s)
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}

			if sb.String() != tt.want {
				t.Errorf("Execute = %q, want %q", sb.String(), tt.want)
			}
		})
	}
}
