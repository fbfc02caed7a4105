// internal/domain/checkout/entity.go
package checkout

import "time"

// Step is a position in the linear checkout flow.
type Step string

const (
	StepStart            Step = "start"
	StepAddressCollected Step = "address_collected"
	StepPaymentSelected  Step = "payment_selected"
	StepReviewing        Step = "reviewing"
	StepSubmitted        Step = "submitted"
)

var stepOrder = map[Step]int{
	StepStart:            0,
	StepAddressCollected: 1,
	StepPaymentSelected:  2,
	StepReviewing:        3,
	StepSubmitted:        4,
}

// State is the per-user checkout session persisted in redis.
type State struct {
	Step      Step      `json:"step"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState returns a session at the start of the flow.
func NewState() *State {
	return &State{Step: StepStart, UpdatedAt: time.Now().UTC()}
}

// advanceTo moves the session forward. A session that already completed a
// submit starts a fresh flow on the next address submission, so submitted
// does not pin the step.
func (s *State) advanceTo(step Step) {
	if s.Step == StepSubmitted && step != StepSubmitted {
		s.Step = step
		s.UpdatedAt = time.Now().UTC()
		return
	}
	if stepOrder[step] >= stepOrder[s.Step] {
		s.Step = step
	}
	s.UpdatedAt = time.Now().UTC()
}
