package model

// Action represents a recipient decision keyword
type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
)

// State returns the response state the action resolves to
func (a Action) State() State {
	if a == ActionApprove {
		return StateApproved
	}
	return StateRejected
}

// Intent represents a parsed reply command
type Intent struct {
	Action  Action
	OrderID string
	Reason  *string
}
