package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// GenerateOutline renders a view tree as a nested Markdown list.
func GenerateOutline(root domain.ViewInfo) string {
	var sb strings.Builder
	sb.WriteString("# View tree\n\n")
	writeView(&sb, root, 0)
	return sb.String()
}

func writeView(sb *strings.Builder, v domain.ViewInfo, depth int) {
	indent := strings.Repeat("  ", depth)
	head := fmt.Sprintf("%s- **%s** `%s`", indent, v.Kind, v.ID)
	switch {
	case v.Kind == domain.ViewEmbedded:
		head += fmt.Sprintf(" block %d", v.BlockID)
	case v.Name != "":
		head += " " + v.Name
	}
	sb.WriteString(head + "\n")

	for _, s := range v.Slots {
		sb.WriteString(fmt.Sprintf("%s  - %d: %s\n", indent, s.Index, describeSlot(s)))
		for _, child := range s.Views {
			writeView(sb, child, depth+2)
		}
	}
}

func describeSlot(s domain.SlotInfo) string {
	switch s.Kind {
	case domain.SlotElement:
		return fmt.Sprintf("`<%s>`", s.Tag)
	case domain.SlotComponent:
		return fmt.Sprintf("component `<%s>`", s.Tag)
	case domain.SlotText:
		return fmt.Sprintf("text %q", s.Text)
	case domain.SlotContainer:
		n := len(s.Views)
		if n == 1 {
			return "container, 1 view"
		}
		return fmt.Sprintf("container, %d views", n)
	}
	return string(s.Kind)
}
