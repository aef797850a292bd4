package workflow

// State is a conversation loop state.
type State int

const (
	StateAwaitingModel State = iota
	StateModelResponded
	StateDispatchingTools
	StateDone
	StateBudgetExhausted
)

var stateNames = [...]string{
	StateAwaitingModel:    "AWAITING_MODEL",
	StateModelResponded:   "MODEL_RESPONDED",
	StateDispatchingTools: "DISPATCHING_TOOLS",
	StateDone:             "DONE",
	StateBudgetExhausted:  "BUDGET_EXHAUSTED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// Terminal reports whether the loop stops in s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateBudgetExhausted
}
