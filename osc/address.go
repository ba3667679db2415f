// Package osc sends the per-installation analysis of the render thread to
// OSC listeners.
package osc

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/soundscape-lab/audioserver"
)

// DefaultAddressTemplate addresses the analysis of each installation.
const DefaultAddressTemplate = "/{{ .Installation | lower }}/audio"

// Addresser turns installation names into OSC addresses using a text/template
// with the sprig functions. Addresses are computed once per installation.
type Addresser struct {
	tmpl  *template.Template
	cache map[audioserver.Installation]string
}

type addressData struct {
	Installation string
}

func NewAddresser(pattern string) (*Addresser, error) {
	if pattern == "" {
		pattern = DefaultAddressTemplate
	}
	tmpl, err := template.New("address").Funcs(sprig.TxtFuncMap()).Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("osc address template: %w", err)
	}
	return &Addresser{tmpl: tmpl, cache: make(map[audioserver.Installation]string)}, nil
}

// Address returns the OSC address of inst.
func (a *Addresser) Address(inst audioserver.Installation) (string, error) {
	if addr, ok := a.cache[inst]; ok {
		return addr, nil
	}
	var sb strings.Builder
	if err := a.tmpl.Execute(&sb, addressData{Installation: string(inst)}); err != nil {
		return "", fmt.Errorf("osc address of %q: %w", inst, err)
	}
	addr := strings.TrimSpace(sb.String())
	if !strings.HasPrefix(addr, "/") {
		return "", fmt.Errorf("osc address %q of %q does not start with /", addr, inst)
	}
	a.cache[inst] = addr
	return addr, nil
}
