package luafn

import (
	"context"
	"strings"
	"testing"

	"github.com/flarebyte/scribe/internal/document"
	"github.com/flarebyte/scribe/internal/resolver"
)

func registerOne(t *testing.T, def Definition, sb Sandbox) *resolver.Registry {
	t.Helper()
	reg := resolver.NewRegistry()
	if err := Register(reg, []Definition{def}, sb); err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func TestAnnotator_Upper(t *testing.T) {
	reg := registerOne(t, Definition{
		ID:     "shout",
		Role:   resolver.RoleAnnotator,
		Sig:    resolver.Signature{In: resolver.KindText, Out: resolver.KindText},
		Inline: "return function(input) return string.upper(input) .. '!' end",
	}, DefaultSandbox())
	a, err := reg.ResolveAnnotator("shout")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	defer a.(*Function).Close()
	got, err := a.Annotate(context.Background(), "hello")
	if err != nil || got != "HELLO!" {
		t.Fatalf("annotate: %v %v", got, err)
	}
	d, _ := reg.Describe("shout")
	if d.Source != "lua" || d.Role != resolver.RoleAnnotator {
		t.Fatalf("unexpected descriptor %+v", d)
	}
}

func TestExtractor_SeesDocumentAndContext(t *testing.T) {
	reg := registerOne(t, Definition{
		ID:     "pick",
		Role:   resolver.RoleExtractor,
		Inline: "return function(doc, ctx) return doc.text .. '|' .. ctx.params.suffix end",
	}, DefaultSandbox())
	x, err := reg.ResolveExtractor("pick")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	doc := &document.Unit{Locator: "a", Text: "hi"}
	pctx := map[string]any{"params": map[string]any{"suffix": "end"}}
	got, err := x.Extract(context.Background(), doc, pctx)
	if err != nil || got != "hi|end" {
		t.Fatalf("extract: %v %v", got, err)
	}
}

func TestPostProcessor_WritesAnnotation(t *testing.T) {
	reg := registerOne(t, Definition{
		ID:     "tag",
		Role:   resolver.RolePostProcessor,
		Inline: "return function(doc, result, input) return { value = result, from = input } end",
	}, DefaultSandbox())
	p, err := reg.ResolvePostProcessor("tag")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	doc := &document.Unit{Text: "x"}
	if err := p.Post(context.Background(), doc, "X", "x"); err != nil {
		t.Fatalf("post: %v", err)
	}
	m, ok := doc.Annotation.(map[string]any)
	if !ok || m["value"] != "X" || m["from"] != "x" {
		t.Fatalf("unexpected annotation %#v", doc.Annotation)
	}
}

func TestPostProcessor_NilLeavesDocument(t *testing.T) {
	reg := registerOne(t, Definition{
		ID:     "noop",
		Role:   resolver.RolePostProcessor,
		Inline: "return function() return nil end",
	}, DefaultSandbox())
	p, _ := reg.ResolvePostProcessor("noop")
	doc := &document.Unit{Annotation: "keep"}
	if err := p.Post(context.Background(), doc, "new", nil); err != nil {
		t.Fatalf("post: %v", err)
	}
	if doc.Annotation != "keep" {
		t.Fatalf("annotation changed: %v", doc.Annotation)
	}
}

func TestRegister_Errors(t *testing.T) {
	cases := []struct {
		name string
		def  Definition
		want string
	}{
		{"syntax", Definition{ID: "bad", Role: resolver.RoleAnnotator, Inline: "return function("}, `function "bad"`},
		{"not a function", Definition{ID: "num", Role: resolver.RoleAnnotator, Inline: "return 1"}, "inline must return function"},
		{"role", Definition{ID: "r", Role: "reducer", Inline: "return function() end"}, "unknown role"},
		{"requires unmet", Definition{ID: "v", Role: resolver.RoleAnnotator, Requires: ">=2.0.0", Inline: "return function() end"}, "requires >=2.0.0"},
		{"requires invalid", Definition{ID: "w", Role: resolver.RoleAnnotator, Requires: "not-a-range", Inline: "return function() end"}, "invalid requires"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Register(resolver.NewRegistry(), []Definition{c.def}, DefaultSandbox())
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error containing %q, got %v", c.want, err)
			}
		})
	}
}

func TestRegister_RequiresSatisfied(t *testing.T) {
	registerOne(t, Definition{ID: "ok", Role: resolver.RoleAnnotator, Requires: "^1.0.0", Inline: "return function(x) return x end"}, DefaultSandbox())
}

func TestResolve_FreshStatePerCall(t *testing.T) {
	reg := registerOne(t, Definition{
		ID:     "counter",
		Role:   resolver.RoleAnnotator,
		Inline: "local n = 0\nreturn function() n = n + 1; return n end",
	}, DefaultSandbox())
	for i := 0; i < 2; i++ {
		a, err := reg.ResolveAnnotator("counter")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		got, err := a.Annotate(context.Background(), nil)
		if err != nil || got != 1.0 {
			t.Fatalf("call %d: expected 1, got %v (%v)", i, got, err)
		}
	}
}
