package broadcast

// state enumerates the lifecycle machine. The loop reconciles slots, then
// the quotation found on the current slot, then runs the steady-state
// content loop until the slot's end approaches, and starts over on the
// next slot.
type state int

const (
	stateReconcileSlots state = iota
	stateReconcileQuote
	stateContent
	stateSlotEnd
)

func (s state) String() string {
	switch s {
	case stateReconcileSlots:
		return "reconcile-slots"
	case stateReconcileQuote:
		return "reconcile-quotation"
	case stateContent:
		return "content"
	case stateSlotEnd:
		return "slot-end"
	default:
		return "unknown"
	}
}
