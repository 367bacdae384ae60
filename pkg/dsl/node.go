package dsl

import "github.com/aretw0/arbor/pkg/blueprint"

// NodeBuilder provides a fluent API for configuring a template node.
type NodeBuilder struct {
	node blueprint.Node
}

// El creates an element node.
func El(tag string, children ...*NodeBuilder) *NodeBuilder {
	return &NodeBuilder{node: blueprint.Node{Element: tag, Children: nodes(children)}}
}

// Text creates a text node. {{path}} placeholders are bound to the view context.
func Text(content string) *NodeBuilder {
	return &NodeBuilder{node: blueprint.Node{Text: &content}}
}

// Use places the component registered under selector.
func Use(selector string) *NodeBuilder {
	return &NodeBuilder{node: blueprint.Node{Component: selector}}
}

// If renders children while cond is truthy. A leading "!" negates it.
func If(cond string, children ...*NodeBuilder) *NodeBuilder {
	return &NodeBuilder{node: blueprint.Node{If: cond, Children: nodes(children)}}
}

// Each renders children once per item of the list at path, exposing the item as `as`.
func Each(path, as string, children ...*NodeBuilder) *NodeBuilder {
	return &NodeBuilder{node: blueprint.Node{Each: path, As: as, Children: nodes(children)}}
}

// Attr sets an attribute. The value may contain placeholders.
func (n *NodeBuilder) Attr(name, value string) *NodeBuilder {
	if n.node.Attrs == nil {
		n.node.Attrs = make(map[string]string)
	}
	n.node.Attrs[name] = value
	return n
}

// Else sets the branch rendered when an If condition is falsy.
func (n *NodeBuilder) Else(children ...*NodeBuilder) *NodeBuilder {
	n.node.Else = append(n.node.Else, nodes(children)...)
	return n
}

// Append adds children.
func (n *NodeBuilder) Append(children ...*NodeBuilder) *NodeBuilder {
	n.node.Children = append(n.node.Children, nodes(children)...)
	return n
}

// Node returns the built node.
func (n *NodeBuilder) Node() blueprint.Node {
	return n.node
}

func nodes(builders []*NodeBuilder) []blueprint.Node {
	if len(builders) == 0 {
		return nil
	}
	out := make([]blueprint.Node, 0, len(builders))
	for _, b := range builders {
		if b != nil {
			out = append(out, b.node)
		}
	}
	return out
}
