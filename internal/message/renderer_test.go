package message

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesFields(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("Hi {{ first_name }}, your {{ segment }} offer awaits!", map[string]interface{}{
		"first_name": "Mei",
		"segment":    "hot",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hi Mei, your hot offer awaits!" {
		t.Errorf("output: %q", out)
	}
}

func TestRenderMissingVariableIsEmpty(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("Hi {{ first_name }}!", map[string]interface{}{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hi !" {
		t.Errorf("output: %q", out)
	}
}

func TestDefaultFilter(t *testing.T) {
	r := NewRenderer()

	cases := []struct {
		name string
		data map[string]interface{}
		want string
	}{
		{"present", map[string]interface{}{"first_name": "Mei"}, "Hi Mei!"},
		{"empty", map[string]interface{}{"first_name": "  "}, "Hi there!"},
		{"absent", map[string]interface{}{}, "Hi there!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := r.Render(`Hi {{ first_name | default: "there" }}!`, tc.data)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if out != tc.want {
				t.Errorf("output: got %q, want %q", out, tc.want)
			}
		})
	}
}

func TestValidateRejectsBadSyntax(t *testing.T) {
	r := NewRenderer()
	if err := r.Validate("Hi {{ first_name"); err == nil {
		t.Fatal("expected parse error")
	}
	if err := r.Validate("Hi {{ first_name }}"); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
}

func TestRenderCachesTemplates(t *testing.T) {
	r := NewRenderer()
	body := "Hi {{ first_name }}"
	if _, err := r.Render(body, map[string]interface{}{"first_name": "A"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, ok := r.cache.Load(body); !ok {
		t.Error("template not cached after render")
	}
	out, err := r.Render(body, map[string]interface{}{"first_name": "B"})
	if err != nil {
		t.Fatalf("cached render: %v", err)
	}
	if !strings.Contains(out, "B") {
		t.Errorf("cached template rendered stale data: %q", out)
	}
}
