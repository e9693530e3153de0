package scoring

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ATSAnalysis holds the four ATS sub-scores
type ATSAnalysis struct {
	Keywords       int `json:"keywords" yaml:"keywords"`
	Formatting     int `json:"formatting" yaml:"formatting"`
	Structure      int `json:"structure" yaml:"structure"`
	Quantification int `json:"quantification" yaml:"quantification"`
}

// ATSScoreResult is the outcome of scoring a resume for ATS compatibility.
// Recommendations follow the order of the checks, not severity.
type ATSScoreResult struct {
	Score           int         `json:"score" yaml:"score"`
	Analysis        ATSAnalysis `json:"analysis" yaml:"analysis"`
	Recommendations []string    `json:"recommendations" yaml:"recommendations"`
	Grade           Grade       `json:"grade" yaml:"grade"`
}

var strongVerbPatterns = compileWordPatterns(strongActionVerbs)

func compileWordPatterns(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return patterns
}

// CalculateATSScore scores resume text on keywords, quantification, structure
// and formatting. It accepts any input, including the empty string.
func CalculateATSScore(resumeText string) ATSScoreResult {
	lower := strings.ToLower(resumeText)
	recs := make([]string, 0, 8)

	keywords, recs := scoreKeywords(lower, recs)
	quantification, recs := scoreQuantification(lower, recs)
	structure, recs := scoreStructure(lower, recs)
	formatting, recs := scoreFormatting(resumeText, recs)

	score := clamp(keywords+quantification+structure+formatting, 0, 100)
	return ATSScoreResult{
		Score: score,
		Analysis: ATSAnalysis{
			Keywords:       keywords,
			Formatting:     formatting,
			Structure:      structure,
			Quantification: quantification,
		},
		Recommendations: recs,
		Grade:           ATSGrade(score),
	}
}

func scoreKeywords(lower string, recs []string) (int, []string) {
	strong := 0
	for _, p := range strongVerbPatterns {
		if p.MatchString(lower) {
			strong++
		}
	}

	weak := 0
	for _, phrase := range weakPhrases {
		if strings.Contains(lower, phrase) {
			weak++
		}
	}

	score := min(pointsPerStrongVerb*strong, atsKeywordsMax) - penaltyPerWeakPhrase*weak
	score = clamp(score, 0, atsKeywordsMax)

	if strong < minStrongVerbsWanted {
		recs = append(recs, recommendActionVerbs)
	}
	if weak > 0 {
		recs = append(recs, recommendDropWeakPhrase)
	}
	return score, recs
}

func scoreQuantification(lower string, recs []string) (int, []string) {
	total, families := 0, 0
	for _, family := range metricFamilies {
		n := len(family.pattern.FindAllStringIndex(lower, -1))
		total += n
		if n > 0 {
			families++
		}
	}

	score := min(pointsPerMetricMatch*total+pointsPerMetricFamily*families, atsQuantificationMax)

	if total < minMetricsWanted {
		recs = append(recs, recommendMetrics)
	}
	return score, recs
}

func scoreStructure(lower string, recs []string) (int, []string) {
	essential := countContained(lower, essentialSections)
	common := countContained(lower, commonSections)

	score := min(pointsPerEssentialSection*essential+min(common, maxCommonSectionPoints), atsStructureMax)

	if essential < len(essentialSections) {
		recs = append(recs, recommendEssentials)
	}
	if common < minCommonSectionsWanted {
		recs = append(recs, recommendCommonSections)
	}
	return score, recs
}

// scoreFormatting works on the original-case text so ALL-CAPS words stay visible
func scoreFormatting(text string, recs []string) (int, []string) {
	bullets := len(bulletPattern.FindAllStringIndex(text, -1))
	caps := len(allCapsPattern.FindAllStringIndex(text, -1))
	dateRanges := len(dateRangePattern.FindAllStringIndex(text, -1))
	words := len(strings.Fields(text))

	longLines := 0
	for line := range strings.SplitSeq(text, "\n") {
		if utf8.RuneCountInString(line) > longLineRunes {
			longLines++
		}
	}

	points := math.Min(bulletPoints*float64(bullets), maxBulletPoints)
	points -= math.Min(allCapsPenalty*float64(caps), maxAllCapsPenalty)
	points -= math.Min(longLinePenalty*float64(longLines), maxLongLinePenalty)
	if words >= minIdealWords && words <= maxIdealWords {
		points += idealWordCountBonus
	}
	if dateRanges >= minDateRangesWanted {
		points += dateRangeBonus
	}
	score := int(math.Round(math.Max(0, math.Min(points, atsFormattingMax))))

	if bullets < minBulletsWanted {
		recs = append(recs, recommendBullets)
	}
	if caps > maxAllCapsTolerated {
		recs = append(recs, recommendFewerCaps)
	}
	if words < minIdealWords {
		recs = append(recs, recommendExpand)
	}
	if words > maxIdealWords {
		recs = append(recs, recommendCondense)
	}
	return score, recs
}

func countContained(text string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			n++
		}
	}
	return n
}
