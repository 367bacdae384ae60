package domain

import "fmt"

// Encapsulation identifies how a component isolates its rendered subtree.
type Encapsulation string

const (
	EncapsulationNone      Encapsulation = "none"
	EncapsulationEmulated  Encapsulation = "emulated"
	EncapsulationShadowDom Encapsulation = "shadow_dom"
)

// ParseEncapsulation maps a declared mode onto an Encapsulation.
// The empty string means EncapsulationEmulated.
func ParseEncapsulation(s string) (Encapsulation, error) {
	switch Encapsulation(s) {
	case "", EncapsulationEmulated:
		return EncapsulationEmulated, nil
	case EncapsulationNone:
		return EncapsulationNone, nil
	case EncapsulationShadowDom, "shadowdom", "shadow":
		return EncapsulationShadowDom, nil
	}
	return "", fmt.Errorf("unknown encapsulation %q", s)
}

// RendererType describes one encapsulation boundary kind.
// It is built once per ComponentDef and shared by every instance of that component.
type RendererType struct {
	ID            string
	Encapsulation Encapsulation
	Styles        []string
	Data          map[string]any
}
