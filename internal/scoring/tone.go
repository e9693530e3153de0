package scoring

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

type ToneAnalysis struct {
	Clarity         int `json:"clarity" yaml:"clarity"`
	Professionalism int `json:"professionalism" yaml:"professionalism"`
	ToneConsistency int `json:"toneConsistency" yaml:"toneConsistency"`
	CallToAction    int `json:"callToAction" yaml:"callToAction"`
}

// EmailToneResult scores a rewritten email against a target tone
type EmailToneResult struct {
	Analysis     ToneAnalysis `json:"analysis" yaml:"analysis"`
	Score        int          `json:"score" yaml:"score"`
	Grade        Grade        `json:"grade" yaml:"grade"`
	Improvements []string     `json:"improvements" yaml:"improvements"`
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// AssessEmailTone scores rewritten against targetTone. original is accepted
// so callers can pass both drafts but it does not affect the result.
func AssessEmailTone(original, rewritten, targetTone string) EmailToneResult {
	lower := strings.ToLower(rewritten)
	tone := strings.ToLower(strings.TrimSpace(targetTone))

	analysis := ToneAnalysis{
		Clarity:         scoreClarity(rewritten),
		Professionalism: min(pointsPerCourtesy*countContained(lower, courtesyPhrases), toneSubScoreMax),
		ToneConsistency: min(pointsPerToneWord*countContained(lower, toneVocabulary[tone]), toneSubScoreMax),
		CallToAction:    scoreCallToAction(lower),
	}

	improvements := make([]string, 0, 4)
	if analysis.Clarity < toneGoodEnough {
		improvements = append(improvements, improveClarity)
	}
	if analysis.Professionalism < toneGoodEnough {
		improvements = append(improvements, improveProfessionalism)
	}
	if analysis.ToneConsistency < toneGoodEnough {
		improvements = append(improvements, fmt.Sprintf(improveToneFormat, tone))
	}
	if analysis.CallToAction < toneGoodEnough {
		improvements = append(improvements, improveCallToAction)
	}

	score := analysis.Clarity + analysis.Professionalism + analysis.ToneConsistency + analysis.CallToAction
	return EmailToneResult{
		Analysis:     analysis,
		Score:        score,
		Grade:        ToneGrade(score),
		Improvements: improvements,
	}
}

// scoreClarity rates the mean sentence length. Text with no sentences gets the lowest band.
func scoreClarity(text string) int {
	total, sentences := 0, 0
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		total += utf8.RuneCountInString(s)
		sentences++
	}
	if sentences == 0 {
		return 15
	}

	mean := float64(total) / float64(sentences)
	switch {
	case mean < shortSentenceRunes:
		return 25
	case mean < mediumSentenceRunes:
		return 20
	default:
		return 15
	}
}

func scoreCallToAction(lower string) int {
	if countContained(lower, callToActionPhrases) > 0 {
		return callToActionPoints
	}
	return 0
}
