package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shortResume = `Experience
- Led team.
- Increased revenue by 25%.
- Managed $50k budget.
- Reduced costs by 10%.
- Improved efficiency by 20%.
- Delivered 3 projects on time.
Skills
Go, Kafka, Docker`

func richResume() string {
	main := `Jane Doe
Summary
Backend engineer focused on reliable distributed systems.
Experience
Senior Engineer, Acme Corp, 2019 - Present
- Led migration of 40 services to Kubernetes, reducing deploy time by 35%
- Architected an event pipeline handling 2M events per day
- Optimized query latency from 2.1s to 300ms
- Reduced cloud spend by $120k per year
- Mentored 6 engineers and established code review standards
- Launched a self-service portal and improved onboarding, delivered ahead of schedule
Software Engineer, Beta Inc, 2015 – 2019
- Built a billing platform serving 50,000 users
- Automated the release process, cutting manual work by 20 hours per week
- Designed and implemented an on-call rotation with a 4:1 engineer to incident ratio
Skills
Go, PostgreSQL, Kafka, Kubernetes, Terraform
Education
Computer Science, State University
Projects
Open-source contributor to observability tooling
Certifications
Certified Kubernetes Administrator
`
	filler := strings.Repeat("- Partnered with product and design stakeholders to refine quarterly roadmap priorities\n", 20)
	return main + filler
}

func TestCalculateATSScoreShortResume(t *testing.T) {
	result := CalculateATSScore(shortResume)

	assert.GreaterOrEqual(t, result.Analysis.Structure, 16, "both essential sections are present")
	// six matches across four metric families: 3*6 + 2*4
	assert.Equal(t, 26, result.Analysis.Quantification)
	assert.Equal(t, 12, result.Analysis.Keywords)
	assert.Equal(t, 9, result.Analysis.Formatting)
	assert.Equal(t, result.Analysis.Keywords+result.Analysis.Quantification+
		result.Analysis.Structure+result.Analysis.Formatting, result.Score)
	assert.Equal(t, ATSGrade(result.Score), result.Grade)
	// keywords and formatting cap this input at 12+26+20+9 = 67, below the
	// Good band, so it grades Fair even with every section bonus
	assert.LessOrEqual(t, result.Score, 67)
	assert.Equal(t, GradeFair, result.Grade)

	assert.Equal(t, []string{recommendMetrics, recommendCommonSections, recommendExpand}, result.Recommendations)
}

func TestCalculateATSScoreRichResume(t *testing.T) {
	result := CalculateATSScore(richResume())

	assert.Equal(t, 25, result.Analysis.Keywords)
	assert.Equal(t, 30, result.Analysis.Quantification)
	assert.Equal(t, 20, result.Analysis.Structure)
	assert.GreaterOrEqual(t, result.Analysis.Formatting, 13)
	assert.GreaterOrEqual(t, result.Score, 85)
	assert.Equal(t, GradeExcellent, result.Grade)
	assert.NotContains(t, result.Recommendations, recommendMetrics)
	assert.NotContains(t, result.Recommendations, recommendEssentials)
	assert.NotContains(t, result.Recommendations, recommendBullets)
}

func TestCalculateATSScoreEmpty(t *testing.T) {
	result := CalculateATSScore("")

	assert.Equal(t, ATSAnalysis{}, result.Analysis)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, GradeNeedsImprovement, result.Grade)
	assert.Equal(t, []string{
		recommendActionVerbs,
		recommendMetrics,
		recommendEssentials,
		recommendCommonSections,
		recommendBullets,
		recommendExpand,
	}, result.Recommendations)
}

func TestScoreKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     int
		wantRecs []string
	}{
		{
			name:     "weak phrases only floor at zero",
			text:     "Responsible for reports. Worked on things.",
			want:     0,
			wantRecs: []string{recommendActionVerbs, recommendDropWeakPhrase},
		},
		{
			name:     "strong verbs minus weak phrases",
			text:     "Led, managed, developed, created, implemented, designed and built. Helped with hiring. Involved in planning.",
			want:     10,
			wantRecs: []string{recommendDropWeakPhrase},
		},
		{
			name:     "verbs match whole words only",
			text:     "Ledger reconciliation and unmanaged builds",
			want:     0,
			wantRecs: []string{recommendActionVerbs},
		},
		{
			name:     "repeated verb counts once",
			text:     "Led led LED led",
			want:     2,
			wantRecs: []string{recommendActionVerbs},
		},
		{
			name: "strong verbs cap at 25",
			text: strings.Join(strongActionVerbs, " "),
			want: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, recs := scoreKeywords(strings.ToLower(tt.text), nil)
			assert.Equal(t, tt.want, score)
			assert.Equal(t, tt.wantRecs, recs)
		})
	}
}

func TestScoreQuantificationFamilies(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"grew signups 40%", 5},
		{"saved $1,200,000", 5},
		{"reached 100k+ downloads", 5},
		{"cut build time to 4.5x faster", 5},
		{"kept a 3:1 ratio", 5},
		{"shipped in 6 months", 5},
		{"onboarded 500 users", 5},
		{"no numbers here", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			score, _ := scoreQuantification(strings.ToLower(tt.text), nil)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestScoreStructure(t *testing.T) {
	score, recs := scoreStructure("summary education projects certifications achievements", nil)
	assert.Equal(t, 4, score, "common sections cap at 4 points")
	assert.Equal(t, []string{recommendEssentials}, recs)

	score, recs = scoreStructure("experience skills summary education projects certifications achievements", nil)
	assert.Equal(t, 20, score)
	assert.Empty(t, recs)
}

func TestScoreFormatting(t *testing.T) {
	t.Run("all caps penalty uses original case", func(t *testing.T) {
		score, recs := scoreFormatting("- JAVA\n- HTML\n- CSS\n- AWS\n- GCP\n- SQL\n- API", nil)
		// 7 bullets earn 10, 7 caps words cost the maximum 5
		assert.Equal(t, 5, score)
		assert.Contains(t, recs, recommendFewerCaps)
		assert.NotContains(t, recs, recommendBullets)

		lowered, _ := scoreFormatting(strings.ToLower("- JAVA\n- HTML\n- CSS\n- AWS\n- GCP\n- SQL\n- API"), nil)
		assert.Equal(t, 10, lowered)
	})

	t.Run("glyph bullets and date ranges", func(t *testing.T) {
		text := "• one\n• two\n2018 – 2020 Analyst\n2020-PRESENT Lead"
		score, _ := scoreFormatting(text, nil)
		// 2 bullets give 3, PRESENT costs 1, two date ranges add 3
		assert.Equal(t, 5, score)
	})

	t.Run("long lines", func(t *testing.T) {
		line := strings.Repeat("a", 121)
		text := "- a\n- b\n- c\n- d\n" + strings.Repeat(line+"\n", 8)
		score, _ := scoreFormatting(text, nil)
		// 4 bullets give 6, 8 long lines cost the maximum 3
		assert.Equal(t, 3, score)
	})

	t.Run("word count bands", func(t *testing.T) {
		_, recs := scoreFormatting(strings.Repeat("word ", 900), nil)
		assert.Contains(t, recs, recommendCondense)

		score, recs := scoreFormatting(strings.Repeat("word ", 400), nil)
		assert.Equal(t, 5, score)
		assert.NotContains(t, recs, recommendExpand)
		assert.NotContains(t, recs, recommendCondense)
	})

	t.Run("half points round", func(t *testing.T) {
		// 3 bullets = 4.5 points
		score, _ := scoreFormatting("- a\n- b\n- c", nil)
		assert.Equal(t, 5, score)
	})
}

func TestCalculateATSScoreBounds(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n\t",
		shortResume,
		richResume(),
		strings.Repeat("RESPONSIBLE FOR WORKED ON HELPED WITH ", 200),
		strings.Repeat("50% $10k 20k 2x 3:1 4 years 100 users ", 100),
		strings.Repeat(strings.Repeat("x", 200)+"\n", 50),
		strings.Repeat("• Led experience skills summary education projects 2019-2020 ", 300),
	}

	for _, input := range inputs {
		result := CalculateATSScore(input)
		a := result.Analysis
		assert.True(t, a.Keywords >= 0 && a.Keywords <= 25, "keywords %d", a.Keywords)
		assert.True(t, a.Quantification >= 0 && a.Quantification <= 30, "quantification %d", a.Quantification)
		assert.True(t, a.Structure >= 0 && a.Structure <= 20, "structure %d", a.Structure)
		assert.True(t, a.Formatting >= 0 && a.Formatting <= 25, "formatting %d", a.Formatting)
		assert.True(t, result.Score >= 0 && result.Score <= 100, "score %d", result.Score)
		assert.Equal(t, a.Keywords+a.Quantification+a.Structure+a.Formatting, result.Score)
		require.NotNil(t, result.Recommendations)
	}
}

func TestATSGradeBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Grade
	}{
		{100, GradeExcellent},
		{85, GradeExcellent},
		{84, GradeGood},
		{70, GradeGood},
		{69, GradeFair},
		{50, GradeFair},
		{49, GradeNeedsImprovement},
		{0, GradeNeedsImprovement},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ATSGrade(tt.score), "score %d", tt.score)
	}
}

func TestCalculateATSScoreDeterministic(t *testing.T) {
	text := richResume()
	first := CalculateATSScore(text)
	for range 5 {
		assert.Equal(t, first, CalculateATSScore(text))
	}
}

func BenchmarkCalculateATSScore(b *testing.B) {
	text := richResume()
	for b.Loop() {
		CalculateATSScore(text)
	}
}
