package flow

import "testing"

func TestStartIsReachable(t *testing.T) {
	if !IsReachable(&Start{}) {
		t.Error("expected Start to be reachable")
	}
}

func TestUnreachableMarker(t *testing.T) {
	if IsReachable(&Unreachable{}) {
		t.Error("expected Unreachable node to not be reachable")
	}
}

func TestAssignmentAfterUnconditionalRaiseIsUnreachable(t *testing.T) {
	unreachable := &Unreachable{}
	assign := NewAssignment(nil, unreachable)
	if IsReachable(assign) {
		t.Error("expected assignment following an unreachable antecedent to be unreachable")
	}
}

func TestLabelReachableIfAnyAntecedentIs(t *testing.T) {
	start := &Start{}
	label := NewLabel(&Unreachable{}, start)
	if !IsReachable(label) {
		t.Error("expected label reachable via its live antecedent")
	}
}

func TestLoopBackEdgeDoesNotInfiniteLoop(t *testing.T) {
	start := &Start{}
	label := NewLabel(start)
	cond := NewCondition(nil, true, label)
	label.AddAntecedent(cond) // back edge
	if !IsReachable(label) {
		t.Error("expected loop label reachable via Start despite the back edge")
	}
}


