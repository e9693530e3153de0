package scoring

// starComponentRule describes how one STAR component is detected and reported
type starComponentRule struct {
	name     string
	phrases  []string
	strength int
	positive string
	improve  string
}

var (
	situationRule = starComponentRule{
		name: "situation",
		phrases: []string{
			"situation", "when", "context", "at my previous job", "at my last job",
			"background", "the challenge was", "we were facing",
		},
		strength: 8,
		positive: "Good job setting the scene with a clear situation",
		improve:  "Start by describing the situation or context so the interviewer understands the background",
	}

	taskRule = starComponentRule{
		name: "task",
		phrases: []string{
			"task", "goal", "responsible for", "my role", "objective", "needed to", "assigned",
		},
		strength: 7,
		positive: "You clearly explained your task and responsibility",
		improve:  "Explain the specific task or goal you were responsible for",
	}

	actionRule = starComponentRule{
		name: "action",
		phrases: []string{
			"action", "i decided", "i implemented", "i developed", "i created",
			"i led", "i organized", "i analyzed", "my approach",
		},
		strength: 8,
		positive: "Strong description of the actions you personally took",
		improve:  "Describe the specific actions you took, using \"I\" to highlight your own contribution",
	}

	resultRule = starComponentRule{
		name: "result",
		phrases: []string{
			"result", "outcome", "achieved", "increased", "decreased",
			"improved", "reduced", "saved", "led to",
		},
		strength: 9,
		positive: "Great job sharing the outcome of your actions",
		improve:  "End with the result of your actions, quantified where possible",
	}
)
