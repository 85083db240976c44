package syntax

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

// override is the YAML document shape accepted by LoadDescriptor. Every
// field is optional; an absent field leaves the corresponding default-C99
// table untouched.
type override struct {
	Keywords []struct {
		Name string `yaml:"name"`
		Kind string `yaml:"kind"`
	} `yaml:"keywords"`
	RemoveKeywords []string `yaml:"remove_keywords"`
	Comments       *struct {
		LineStart  string `yaml:"line_start"`
		BlockStart string `yaml:"block_start"`
		BlockEnd   string `yaml:"block_end"`
	} `yaml:"comments"`
	Features *struct {
		HexLiterals        *bool `yaml:"hex_literals"`
		BinaryLiterals     *bool `yaml:"binary_literals"`
		OctalLiterals      *bool `yaml:"octal_literals"`
		FloatLiterals      *bool `yaml:"float_literals"`
		ScientificNotation *bool `yaml:"scientific_notation"`
		PreprocessorLines  *bool `yaml:"preprocessor_lines"`
	} `yaml:"features"`
}

// kindByName maps the keyword-kind spellings a YAML override may use back
// onto the reserved-word token kinds understood by this descriptor. Only
// keyword token kinds are exposed here: an override file adds or removes
// reserved words, it does not invent new operator/punctuation kinds (those
// require a code change to pkg/token).
var kindByName = func() map[string]token.Type {
	m := make(map[string]token.Type)
	for _, kw := range NewC99().Keywords {
		m[kw.Name] = kw.Kind
	}
	return m
}()

// LoadDescriptor builds a Descriptor starting from the built-in C99
// defaults and merging a YAML override document read from r over it. A nil
// or empty r (io.EOF on the first read) yields the unmodified defaults.
func LoadDescriptor(r io.Reader) (*Descriptor, error) {
	d := NewC99()
	if r == nil {
		return d, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("syntax: reading descriptor override: %w", err)
	}
	if len(data) == 0 {
		return d, nil
	}

	var ov override
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("syntax: parsing descriptor override: %w", err)
	}

	applyOverride(d, &ov)
	d.Finalize()
	return d, nil
}

func applyOverride(d *Descriptor, ov *override) {
	if len(ov.RemoveKeywords) > 0 {
		drop := make(map[string]bool, len(ov.RemoveKeywords))
		for _, name := range ov.RemoveKeywords {
			drop[name] = true
		}
		kept := d.Keywords[:0]
		for _, kw := range d.Keywords {
			if !drop[kw.Name] {
				kept = append(kept, kw)
			}
		}
		d.Keywords = kept
	}

	for _, kw := range ov.Keywords {
		kind, ok := kindByName[kw.Kind]
		if !ok {
			// Unknown kind spellings are ignored rather than rejected: an
			// override document is meant to retarget the dialect, not to
			// introduce token kinds the rest of the pipeline can't handle.
			continue
		}
		d.Keywords = append(d.Keywords, Keyword{Name: kw.Name, Kind: kind})
	}

	if c := ov.Comments; c != nil {
		if c.LineStart != "" {
			d.Comments.LineStart = c.LineStart
		}
		if c.BlockStart != "" {
			d.Comments.BlockStart = c.BlockStart
		}
		if c.BlockEnd != "" {
			d.Comments.BlockEnd = c.BlockEnd
		}
	}

	if f := ov.Features; f != nil {
		applyBool(&d.Features.HexLiterals, f.HexLiterals)
		applyBool(&d.Features.BinaryLiterals, f.BinaryLiterals)
		applyBool(&d.Features.OctalLiterals, f.OctalLiterals)
		applyBool(&d.Features.FloatLiterals, f.FloatLiterals)
		applyBool(&d.Features.ScientificNotation, f.ScientificNotation)
		applyBool(&d.Features.PreprocessorLines, f.PreprocessorLines)
	}
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
