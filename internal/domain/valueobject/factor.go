package valueobject

import "fmt"

// Factor identifies one of the input dimensions that can dominate a stress score.
// The key is internal; each rule set decides how a factor is labelled to users.
type Factor struct {
	key string
}

var (
	FactorAssignments   = Factor{key: "assignments"}
	FactorSleep         = Factor{key: "sleep"}
	FactorClassHours    = Factor{key: "class_hours"}
	FactorExamProximity = Factor{key: "exam_proximity"}
)

// Factors returns every factor in attribution order. Ties between equal weights
// are broken in favour of the factor that appears first here.
func Factors() []Factor {
	return []Factor{FactorAssignments, FactorSleep, FactorClassHours, FactorExamProximity}
}

// FactorFromString reconstructs a Factor from its key.
func FactorFromString(s string) (Factor, error) {
	for _, f := range Factors() {
		if f.key == s {
			return f, nil
		}
	}
	return Factor{}, fmt.Errorf("invalid factor: %s", s)
}

// String returns the internal key.
func (f Factor) String() string {
	return f.key
}

// IsZero returns true if the Factor has not been set.
func (f Factor) IsZero() bool {
	return f.key == ""
}

// Equal checks equality with another Factor.
func (f Factor) Equal(other Factor) bool {
	return f.key == other.key
}
