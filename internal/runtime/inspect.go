package runtime

import "github.com/aretw0/arbor/pkg/domain"

func describe(v *View) domain.ViewInfo {
	info := domain.ViewInfo{
		ID:      v.id,
		Kind:    v.kind,
		Name:    v.name,
		BlockID: v.blockID,
	}
	for _, s := range v.slots {
		if s == nil {
			continue
		}
		si := domain.SlotInfo{Index: s.index, Kind: s.kind, Tag: s.tag}
		switch s.kind {
		case domain.SlotText:
			si.Text = s.text
		case domain.SlotContainer:
			for _, ev := range s.container.views {
				si.Views = append(si.Views, describe(ev))
			}
		case domain.SlotComponent:
			si.Views = []domain.ViewInfo{describe(s.component)}
		}
		info.Slots = append(info.Slots, si)
	}
	return info
}
