package data

// Reactor event types.
const (
	ReactorEventHit   = "hit"
	ReactorEventTouch = "touch"
	ReactorEventItem  = "item"
)

// ReactorStateInfo describes what moves a reactor out of one state.
// A state with no entry in the template is terminal.
type ReactorStateInfo struct {
	Event string `yaml:"event"`
	Next  int8   `yaml:"next"`
}

// ReactorTemplate holds static data for a reactor loaded from YAML.
type ReactorTemplate struct {
	ReactorID int32              `yaml:"reactor_id"`
	Name      string             `yaml:"name"`
	Script    string             `yaml:"script,omitempty"`
	States    []ReactorStateInfo `yaml:"states"`
}

// Transition returns the state a reactor in state moves to on event.
func (t *ReactorTemplate) Transition(state int8, event string) (int8, bool) {
	if state < 0 || int(state) >= len(t.States) {
		return state, false
	}
	s := t.States[state]
	if s.Event != event {
		return state, false
	}
	return s.Next, true
}

// IsTerminal reports whether state has no outgoing transition.
func (t *ReactorTemplate) IsTerminal(state int8) bool {
	return state < 0 || int(state) >= len(t.States)
}

type reactorListFile struct {
	Reactors []ReactorTemplate `yaml:"reactors"`
}

type ReactorTable struct {
	templates map[int32]*ReactorTemplate
}

func LoadReactorTable(path string) (*ReactorTable, error) {
	var f reactorListFile
	if err := readYAML(path, "reactor_list", &f); err != nil {
		return nil, err
	}
	return NewReactorTable(f.Reactors), nil
}

func NewReactorTable(reactors []ReactorTemplate) *ReactorTable {
	t := &ReactorTable{templates: make(map[int32]*ReactorTemplate, len(reactors))}
	for i := range reactors {
		t.templates[reactors[i].ReactorID] = &reactors[i]
	}
	return t
}

// Get returns a reactor template by ID, or nil if not found.
func (t *ReactorTable) Get(reactorID int32) *ReactorTemplate {
	return t.templates[reactorID]
}

func (t *ReactorTable) Count() int {
	return len(t.templates)
}
