package scoring

import "regexp"

// Sub-score ceilings. They sum to 100.
const (
	atsKeywordsMax       = 25
	atsQuantificationMax = 30
	atsStructureMax      = 20
	atsFormattingMax     = 25
)

// strongActionVerbs are matched as whole words in the lowercased resume
var strongActionVerbs = []string{
	"led", "managed", "developed", "created", "implemented", "designed",
	"built", "launched", "improved", "increased", "reduced", "optimized",
	"streamlined", "delivered", "achieved", "coordinated", "established",
	"initiated", "spearheaded", "orchestrated", "transformed", "generated",
	"negotiated", "analyzed", "engineered", "automated", "mentored",
	"architected", "resolved",
}

// weakPhrases are passive filler matched as substrings
var weakPhrases = []string{
	"responsible for",
	"worked on",
	"helped with",
	"assisted with",
	"involved in",
	"duties included",
}

const (
	pointsPerStrongVerb   = 2
	penaltyPerWeakPhrase  = 2
	minStrongVerbsWanted  = 6
	pointsPerMetricMatch  = 3
	pointsPerMetricFamily = 2
	minMetricsWanted      = 8
)

type metricFamily struct {
	name    string
	pattern *regexp.Regexp
}

// metricFamilies recognize quantified achievements in the lowercased resume
var metricFamilies = []metricFamily{
	{"percentage", regexp.MustCompile(`\d+(?:\.\d+)?\s*%`)},
	{"dollar", regexp.MustCompile(`\$\s*\d[\d,]*(?:\.\d+)?\s*(?:k|m|b|thousand|million|billion)?`)},
	{"number_suffix", regexp.MustCompile(`\b\d+(?:\.\d+)?[kmb]\b\+?`)},
	{"performance", regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:x|ms|s|sec|seconds)\b`)},
	{"time_ratio", regexp.MustCompile(`\b\d+:\d+\b`)},
	{"time_period", regexp.MustCompile(`\b\d+\+?\s*(?:hours?|days?|weeks?|months?|quarters?|years?)\b`)},
	{"quantity", regexp.MustCompile(`\b\d[\d,]*\+?\s*(?:users|customers|clients|people|employees|members|engineers|developers|projects|products|applications|services|servers|teams|countries|stores|reports)\b`)},
}

var (
	essentialSections = []string{"experience", "skills"}
	commonSections    = []string{"summary", "education", "projects", "certifications", "achievements"}
)

const (
	pointsPerEssentialSection = 8
	maxCommonSectionPoints    = 4
	minCommonSectionsWanted   = 2
)

var (
	// Dash or asterisk list markers at line start, or any glyph bullet
	bulletPattern = regexp.MustCompile(`(?m)^\s*[-*]\s|[•●◦▪▫▸‣⁃]`)
	// Evaluated against the original-case text
	allCapsPattern = regexp.MustCompile(`\b[A-Z]{3,}\b`)
	// YYYY-YYYY or YYYY-present with a hyphen or en dash
	dateRangePattern = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\s*[-–]\s*(?:(?:19|20)\d{2}|present)\b`)
)

const (
	bulletPoints        = 1.5
	maxBulletPoints     = 10.0
	allCapsPenalty      = 1.0
	maxAllCapsPenalty   = 5.0
	longLineRunes       = 120
	longLinePenalty     = 0.5
	maxLongLinePenalty  = 3.0
	idealWordCountBonus = 5.0
	minIdealWords       = 300
	maxIdealWords       = 800
	dateRangeBonus      = 3.0
	minDateRangesWanted = 2
	minBulletsWanted    = 6
	maxAllCapsTolerated = 3
)

const (
	recommendActionVerbs    = "Use more strong action verbs (e.g. led, developed, optimized) to start your bullet points"
	recommendDropWeakPhrase = "Replace weak phrases like \"responsible for\" or \"worked on\" with specific action verbs"
	recommendMetrics        = "Add more quantifiable achievements (percentages, dollar amounts, team sizes, time saved)"
	recommendEssentials     = "Include essential sections: Experience and Skills"
	recommendCommonSections = "Consider adding sections such as Summary, Education, Projects or Certifications"
	recommendBullets        = "Use bullet points to present your experience and achievements"
	recommendFewerCaps      = "Reduce the use of ALL CAPS text; it can be hard for ATS systems and recruiters to read"
	recommendExpand         = "Expand your resume with more detail about your experience and accomplishments (aim for 300-800 words)"
	recommendCondense       = "Condense your resume to the most relevant information (aim for 300-800 words)"
)
