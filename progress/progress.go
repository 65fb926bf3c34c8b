package progress

import (
	"fmt"

	"github.com/viant/chatapproval/model"
)

// Progress keeps response counters of a single order
type Progress struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// Delta represents an incremental counter change
type Delta struct {
	Approved int
	Rejected int
	Pending  int
}

// Update applies the supplied delta
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Approved += d.Approved
	p.Rejected += d.Rejected
	p.Pending += d.Pending
}

// Done reports whether every recipient responded
func (p Progress) Done() bool {
	return p.Total > 0 && p.Pending == 0
}

// String returns a compact summary, e.g. "2/3 responded (1 approved, 1 rejected)"
func (p Progress) String() string {
	return fmt.Sprintf("%d/%d responded (%d approved, %d rejected)", p.Approved+p.Rejected, p.Total, p.Approved, p.Rejected)
}

// DeltaOf returns the counter change for a response state
func DeltaOf(state model.State) Delta {
	switch state {
	case model.StateApproved:
		return Delta{Approved: 1}
	case model.StateRejected:
		return Delta{Rejected: 1}
	}
	return Delta{Pending: 1}
}

// Of tallies the responses of anOrder
func Of(anOrder *model.Order) Progress {
	ret := Progress{}
	if anOrder == nil {
		return ret
	}
	ret.Total = len(anOrder.Recipients)
	for _, response := range anOrder.Recipients {
		state := model.StateUnanswered
		if response != nil {
			state = response.State
		}
		ret.Update(DeltaOf(state))
	}
	return ret
}
