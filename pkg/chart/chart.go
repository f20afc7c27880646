package chart

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
	"github.com/matzehuels/archdeck/pkg/errors"
	"github.com/matzehuels/archdeck/pkg/render/sink"
)

// Kind is a chart variant.
type Kind string

// Chart kinds.
const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
	KindArch Kind = "arch"
)

// LanguagePrefix prefixes chart kinds in fenced code block info strings.
const LanguagePrefix = "d3-"

// Kinds lists every supported chart kind.
var Kinds = []Kind{KindArch, KindBar, KindLine}

// ParseKind accepts "arch" as well as the fenced block form "d3-arch".
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), LanguagePrefix)
	switch k := Kind(s); k {
	case KindBar, KindLine, KindArch:
		return k, true
	}
	return "", false
}

// Language returns the fenced code block language for k.
func (k Kind) Language() string { return LanguagePrefix + string(k) }

// Spec is a decoded chart. Exactly one of Bar, Line and Arch is set,
// matching Kind.
type Spec struct {
	Kind Kind
	Bar  *BarConfig
	Line *LineConfig
	Arch *diagram.Spec
}

// Decode validates a JSON chart config for kind and decodes it.
//
// An arch config must be an object with "nodes" and "edges" arrays; bar and
// line configs may omit "data" but must not give it as a non-array.
// Violations carry [errors.ErrCodeInvalidConfig].
func Decode(kind Kind, data []byte) (Spec, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Spec{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid JSON config")
	}
	if fields == nil {
		return Spec{}, errors.New(errors.ErrCodeInvalidConfig, "config for %s chart must be an object", kind)
	}

	spec := Spec{Kind: kind}
	switch kind {
	case KindArch:
		if !isArray(fields["nodes"]) || !isArray(fields["edges"]) {
			return Spec{}, errors.New(errors.ErrCodeInvalidConfig, "invalid config for chart type: arch")
		}
		s, err := diagram.Parse(data, diagram.FormatJSON)
		if err != nil {
			return Spec{}, err
		}
		spec.Arch = s
	case KindBar:
		raw, ok := fields["data"]
		if ok && !isArray(raw) {
			return Spec{}, errors.New(errors.ErrCodeInvalidConfig, "invalid config for chart type: bar")
		}
		var cfg BarConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Spec{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode bar config")
		}
		spec.Bar = &cfg
	case KindLine:
		raw, ok := fields["data"]
		if ok && !isArray(raw) {
			return Spec{}, errors.New(errors.ErrCodeInvalidConfig, "invalid config for chart type: line")
		}
		var cfg LineConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Spec{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode line config")
		}
		spec.Line = &cfg
	default:
		return Spec{}, errors.New(errors.ErrCodeUnsupported, "unknown chart type: %s", kind)
	}
	return spec, nil
}

func isArray(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '['
}

// handler mounts one chart kind.
type handler func(c *scene.Container, spec Spec, opts scene.Options) *scene.Handle

var handlers = map[Kind]handler{
	KindArch: mountArch,
	KindBar:  mountBar,
	KindLine: mountLine,
}

// Mount renders spec into c through the handler registered for its kind.
// Like [scene.Mount] it never panics; an unknown kind mounts an error panel.
func Mount(c *scene.Container, spec Spec, opts scene.Options) *scene.Handle {
	h, ok := handlers[spec.Kind]
	if !ok {
		return scene.MountStatic(c, opts, func() (*sink.Element, error) {
			return nil, errors.New(errors.ErrCodeUnsupported, "unknown chart type: %s", spec.Kind)
		})
	}
	return h(c, spec, opts)
}

func mountArch(c *scene.Container, spec Spec, opts scene.Options) *scene.Handle {
	return scene.Mount(c, spec.Arch, opts)
}
