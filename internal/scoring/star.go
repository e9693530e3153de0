package scoring

import (
	"math"
	"strings"
)

// StarComponent reports one of Situation, Task, Action or Result
type StarComponent struct {
	Present  bool   `json:"present" yaml:"present"`
	Strength int    `json:"strength" yaml:"strength"`
	Feedback string `json:"feedback" yaml:"feedback"`
}

type StarAnalysis struct {
	Situation StarComponent `json:"situation" yaml:"situation"`
	Task      StarComponent `json:"task" yaml:"task"`
	Action    StarComponent `json:"action" yaml:"action"`
	Result    StarComponent `json:"result" yaml:"result"`
}

// StarEvaluation is the STAR structure of an interview answer
type StarEvaluation struct {
	Analysis        StarAnalysis `json:"analysis" yaml:"analysis"`
	OverallScore    int          `json:"overallScore" yaml:"overallScore"`
	Completeness    int          `json:"completeness" yaml:"completeness"`
	Recommendations []string     `json:"recommendations" yaml:"recommendations"`
}

// EvaluateSTARStructure detects which STAR components an answer contains.
// It is a presence detector: a component either matches one of its phrases
// and earns its fixed strength, or scores zero.
func EvaluateSTARStructure(answerText string) StarEvaluation {
	lower := strings.ToLower(answerText)

	analysis := StarAnalysis{
		Situation: situationRule.evaluate(lower),
		Task:      taskRule.evaluate(lower),
		Action:    actionRule.evaluate(lower),
		Result:    resultRule.evaluate(lower),
	}

	components := []StarComponent{analysis.Situation, analysis.Task, analysis.Action, analysis.Result}
	total, completeness := 0, 0
	recs := make([]string, 0, len(components))
	for _, c := range components {
		total += c.Strength
		if c.Present {
			completeness++
		} else {
			recs = append(recs, c.Feedback)
		}
	}

	return StarEvaluation{
		Analysis:        analysis,
		OverallScore:    int(math.Round(float64(total) / float64(len(components)))),
		Completeness:    completeness,
		Recommendations: recs,
	}
}

func (r starComponentRule) evaluate(lower string) StarComponent {
	for _, phrase := range r.phrases {
		if strings.Contains(lower, phrase) {
			return StarComponent{Present: true, Strength: r.strength, Feedback: r.positive}
		}
	}
	return StarComponent{Feedback: r.improve}
}
