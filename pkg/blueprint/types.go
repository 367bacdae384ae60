package blueprint

// Blueprint is the decoded form of one view document.
type Blueprint struct {
	Name       string         `json:"name" mapstructure:"name"`
	Components []Component    `json:"components" mapstructure:"components"`
	Template   []Node         `json:"template" mapstructure:"template"`
	Context    map[string]any `json:"context" mapstructure:"context"`
}

// Component declares a component kind.
type Component struct {
	Name          string   `json:"name" mapstructure:"name"`
	Selector      string   `json:"selector" mapstructure:"selector"`
	Encapsulation string   `json:"encapsulation" mapstructure:"encapsulation"`
	Styles        []string `json:"styles" mapstructure:"styles"`
	Template      []Node   `json:"template" mapstructure:"template"`
	// Data seeds the context of every instance.
	Data map[string]any `json:"data" mapstructure:"data"`
}

// Node is one template entry. Exactly one of Element, Text, If, Each or Component is set.
type Node struct {
	Element   string            `json:"element,omitempty" mapstructure:"element"`
	Component string            `json:"component,omitempty" mapstructure:"component"`
	Attrs     map[string]string `json:"attrs,omitempty" mapstructure:"attrs"`
	Text      *string           `json:"text,omitempty" mapstructure:"text"`

	If   string `json:"if,omitempty" mapstructure:"if"`
	Else []Node `json:"else,omitempty" mapstructure:"else"`

	Each string `json:"each,omitempty" mapstructure:"each"`
	As   string `json:"as,omitempty" mapstructure:"as"`

	Children []Node `json:"children,omitempty" mapstructure:"children"`
}

// NodeKind classifies a Node.
type NodeKind string

const (
	KindElement   NodeKind = "element"
	KindComponent NodeKind = "component"
	KindText      NodeKind = "text"
	KindIf        NodeKind = "if"
	KindEach      NodeKind = "each"
)

// Kind reports what n declares. It returns "" when n declares nothing or more than one thing.
func (n Node) Kind() NodeKind {
	var kind NodeKind
	set := 0
	if n.Element != "" {
		kind, set = KindElement, set+1
	}
	if n.Component != "" {
		kind, set = KindComponent, set+1
	}
	if n.Text != nil {
		kind, set = KindText, set+1
	}
	if n.If != "" {
		kind, set = KindIf, set+1
	}
	if n.Each != "" {
		kind, set = KindEach, set+1
	}
	if set != 1 {
		return ""
	}
	return kind
}
