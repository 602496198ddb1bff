package selection

import (
	"github.com/milk9111/spriteslicer/sheet"
)

type Action int

const (
	ActionCreateGroup Action = iota
	ActionAddToGroup
	ActionEdit
	ActionExtract
	ActionExportAll
)

func (a Action) String() string {
	switch a {
	case ActionCreateGroup:
		return "Create New Group"
	case ActionAddToGroup:
		return "Add to Group"
	case ActionEdit:
		return "Edit Sprite"
	case ActionExtract:
		return "Extract Sprite"
	case ActionExportAll:
		return "Export All Selected"
	default:
		return "Unknown"
	}
}

// Menu is the context action list for a secondary click.
type Menu struct {
	Targets []sheet.Rect
	Multi   bool
	Actions []Action
}

var (
	singleActions = []Action{ActionCreateGroup, ActionAddToGroup, ActionEdit, ActionExtract}
	multiActions  = []Action{ActionCreateGroup, ActionAddToGroup, ActionExportAll}
)

func newMenu(targets []sheet.Rect, multi bool) *Menu {
	actions := singleActions
	if multi {
		actions = multiActions
	}
	return &Menu{
		Targets: targets,
		Multi:   multi,
		Actions: append([]Action(nil), actions...),
	}
}

func (m *Menu) Has(a Action) bool {
	for _, x := range m.Actions {
		if x == a {
			return true
		}
	}
	return false
}
