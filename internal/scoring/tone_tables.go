package scoring

const (
	toneSubScoreMax     = 25
	toneGoodEnough      = 20
	pointsPerCourtesy   = 4
	pointsPerToneWord   = 5
	callToActionPoints  = 25
	shortSentenceRunes  = 100
	mediumSentenceRunes = 150
)

var courtesyPhrases = []string{
	"please", "thank you", "regards", "sincerely", "appreciate", "kindly", "best",
}

// toneVocabulary keys are the recognized target tones
var toneVocabulary = map[string][]string{
	"friendly": {
		"hope", "pleased", "happy", "excited", "looking forward", "wonderful", "great",
	},
	"formal": {
		"sincerely", "regards", "respectfully", "accordingly", "furthermore", "therefore", "hereby",
	},
	"assertive": {
		"must", "need", "require", "expect", "immediately", "deadline", "ensure",
	},
}

var callToActionPhrases = []string{
	"please", "could you", "would you", "let me know", "respond", "reply", "confirm", "schedule",
}

const (
	improveClarity         = "Shorten your sentences to make the email easier to read"
	improveProfessionalism = "Add courteous language such as \"please\", \"thank you\" or a professional sign-off"
	improveToneFormat      = "Adjust the wording to better match a %s tone"
	improveCallToAction    = "Add a clear call to action telling the recipient what you need from them"
)
