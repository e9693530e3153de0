package scoring

// Grade is a coarse label derived from a numeric score
type Grade string

const (
	GradeExcellent        Grade = "Excellent"
	GradeGood             Grade = "Good"
	GradeFair             Grade = "Fair"
	GradeNeedsImprovement Grade = "Needs Improvement"
)

// gradeBands holds the minimum score for Excellent, Good and Fair
type gradeBands struct {
	excellent, good, fair int
}

var (
	atsGradeBands  = gradeBands{excellent: 85, good: 70, fair: 50}
	toneGradeBands = gradeBands{excellent: 80, good: 60, fair: 40}
)

func (b gradeBands) grade(score int) Grade {
	switch {
	case score >= b.excellent:
		return GradeExcellent
	case score >= b.good:
		return GradeGood
	case score >= b.fair:
		return GradeFair
	default:
		return GradeNeedsImprovement
	}
}

// ATSGrade maps an ATS score to its grade
func ATSGrade(score int) Grade {
	return atsGradeBands.grade(score)
}

// ToneGrade maps an email tone score to its grade
func ToneGrade(score int) Grade {
	return toneGradeBands.grade(score)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
