package hierarchy

import (
	"fmt"
	"strings"
)

// VacuousPolicy decides the verdict of pairs no instance evaluates jointly.
type VacuousPolicy int

const (
	// VacuousConfirm treats vacuous pairs as confirmed (truth over an
	// empty set of instances).
	VacuousConfirm VacuousPolicy = iota
	// VacuousUntested keeps vacuous pairs out of both graphs.
	VacuousUntested
)

// String returns the policy name accepted by [ParseVacuousPolicy].
func (p VacuousPolicy) String() string {
	switch p {
	case VacuousConfirm:
		return "confirm"
	case VacuousUntested:
		return "untested"
	default:
		return fmt.Sprintf("VacuousPolicy(%d)", int(p))
	}
}

// ParseVacuousPolicy parses "confirm" or "untested". The empty string
// selects [VacuousConfirm].
func ParseVacuousPolicy(s string) (VacuousPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "confirm":
		return VacuousConfirm, nil
	case "untested":
		return VacuousUntested, nil
	default:
		return 0, fmt.Errorf("unknown vacuous policy %q (want confirm or untested)", s)
	}
}

// Verdict is the aggregated status of an ordered pair of algorithms.
type Verdict int

const (
	// Unknown is returned for pairs outside the hierarchy.
	Unknown Verdict = iota
	// Confirmed pairs have a dominance path in every instance evaluating them.
	Confirmed
	// Counterexampled pairs lack the path in at least one instance.
	Counterexampled
	// Untested pairs were never evaluated jointly under [VacuousUntested].
	Untested
)

func (v Verdict) String() string {
	switch v {
	case Confirmed:
		return "confirmed"
	case Counterexampled:
		return "counterexampled"
	case Untested:
		return "untested"
	default:
		return "unknown"
	}
}
