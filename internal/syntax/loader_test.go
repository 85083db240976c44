package syntax

import (
	"strings"
	"testing"
)

func TestLoadDescriptorNilReaderYieldsDefaults(t *testing.T) {
	d, err := LoadDescriptor(nil)
	if err != nil {
		t.Fatalf("LoadDescriptor(nil): %v", err)
	}
	if _, ok := d.LookupKeyword("int"); !ok {
		t.Fatalf("default descriptor missing 'int' keyword")
	}
}

func TestLoadDescriptorRemovesKeyword(t *testing.T) {
	yamlDoc := `
remove_keywords:
  - restrict
  - _Generic
`
	d, err := LoadDescriptor(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("LoadDescriptor: %v", err)
	}
	if _, ok := d.LookupKeyword("restrict"); ok {
		t.Errorf("expected 'restrict' to be removed")
	}
	if _, ok := d.LookupKeyword("_Generic"); ok {
		t.Errorf("expected '_Generic' to be removed")
	}
	if _, ok := d.LookupKeyword("int"); !ok {
		t.Errorf("unrelated keywords must survive an override")
	}
}

func TestLoadDescriptorAddsKeyword(t *testing.T) {
	yamlDoc := `
keywords:
  - name: __cdecl
    kind: __attribute__
`
	d, err := LoadDescriptor(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("LoadDescriptor: %v", err)
	}
	kind, ok := d.LookupKeyword("__cdecl")
	if !ok {
		t.Fatalf("expected '__cdecl' to be added as a keyword")
	}
	want, _ := d.LookupKeyword("__attribute__")
	if kind != want {
		t.Errorf("__cdecl kind = %v, want %v (attribute)", kind, want)
	}
}

func TestLoadDescriptorOverridesFeatures(t *testing.T) {
	yamlDoc := `
features:
  binary_literals: false
`
	d, err := LoadDescriptor(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("LoadDescriptor: %v", err)
	}
	if d.Features.BinaryLiterals {
		t.Errorf("expected binary_literals to be disabled")
	}
	if !d.Features.HexLiterals {
		t.Errorf("unrelated feature flags must keep their default")
	}
}

func TestLoadDescriptorOverridesComments(t *testing.T) {
	yamlDoc := `
comments:
  line_start: "--"
`
	d, err := LoadDescriptor(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("LoadDescriptor: %v", err)
	}
	if d.Comments.LineStart != "--" {
		t.Errorf("line comment start = %q, want %q", d.Comments.LineStart, "--")
	}
	if d.Comments.BlockStart != "/*" {
		t.Errorf("unrelated comment delimiter must keep its default")
	}
}

func TestLoadDescriptorRejectsInvalidYAML(t *testing.T) {
	if _, err := LoadDescriptor(strings.NewReader("not: [valid")); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
