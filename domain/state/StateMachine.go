package state

type State string

// stateless object, just used for state computing
type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

type Transition struct {
	Name string `json:"name"`
	From State  `json:"from"`
	To   State  `json:"to"`
}

func NewStateMachine(states []State, transitions []Transition) *StateMachine {
	return &StateMachine{States: states, Transitions: transitions}
}

func (sm *StateMachine) AvailableTransitions(fromState State) []Transition {
	r := []Transition{}
	for _, transition := range sm.Transitions {
		if fromState == transition.From {
			r = append(r, transition)
		}
	}
	return r
}

// Accepts reports whether the edge fromState -> toState is in the table.
func (sm *StateMachine) Accepts(fromState, toState State) bool {
	for _, transition := range sm.Transitions {
		if transition.From == fromState && transition.To == toState {
			return true
		}
	}
	return false
}
