package evaluator

import "strconv"

// Hiring decision labels.
const (
	DecisionReject = "Reject"
	DecisionHold   = "Hold"
	DecisionHire   = "Hire"
)

var decisionLabels = map[int]string{
	0: DecisionReject,
	1: DecisionHold,
	2: DecisionHire,
}

// DecisionLabel maps a class code to its label. Codes outside the table are
// rendered as their decimal text rather than rejected.
func DecisionLabel(code int) string {
	if label, ok := decisionLabels[code]; ok {
		return label
	}
	return strconv.Itoa(code)
}
