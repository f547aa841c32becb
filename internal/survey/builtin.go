package survey

// Question IDs of the built-in advocacy catalogue.
const (
	QIntro             = "intro"
	QMarried           = "married"
	QSpouseImpact      = "spouseImpact"
	QChildcareCost     = "childcareCost"
	QCurrentPrograms   = "currentPrograms"
	QProgramPreference = "programPreference"
	QBaccSupport       = "baccSupport"
	QPriorities        = "priorities"
	QThankYou          = "thankyou"
)

// Answer values the built-in catalogue's conditions depend on.
const (
	AnswerYes        = "Yes"
	AnswerNo         = "No"
	AnswerNoPrograms = "No, we do not use any military childcare program"
)

// likertScale is the agreement scale, strongest agreement first.
var likertScale = []string{
	"Strongly Agree",
	"Agree",
	"Neutral",
	"Disagree",
	"Strongly Disagree",
}

// DefaultCatalogue returns the built-in advocacy survey shown after an
// allowance calculation. Each call returns a fresh copy.
func DefaultCatalogue() *Catalogue {
	return &Catalogue{
		Name: "bacc-advocacy",
		Questions: []Question{
			{
				ID:    QIntro,
				Kind:  KindInfo,
				Title: "Help us make the case for BACC",
				Content: "This short survey collects how childcare costs affect military families.\n" +
					"Answers are anonymous and are shared only in aggregate with advocacy partners.\n" +
					"It takes about three minutes.",
			},
			{
				ID:       QMarried,
				Kind:     KindSingleChoice,
				Title:    "Are you married?",
				Options:  []string{AnswerYes, AnswerNo},
				Required: true,
			},
			{
				ID:          QSpouseImpact,
				Kind:        KindMultiChoice,
				Title:       "How has childcare availability affected your spouse?",
				Description: "Select all that apply.",
				Options: []string{
					"Unable to work outside the home",
					"Reduced working hours",
					"Turned down a job offer",
					"Delayed education or training",
					"No impact",
				},
				AllowOther: true,
				When:       Equals{Question: QMarried, Value: AnswerYes},
			},
			{
				ID:        QChildcareCost,
				Kind:      KindSingleChoice,
				Title:     "Childcare costs",
				Statement: "Childcare costs are a significant burden on my family's budget.",
				Options:   likertScale,
				Required:  true,
			},
			{
				ID:    QCurrentPrograms,
				Kind:  KindSingleChoice,
				Title: "Do you currently use a military childcare program?",
				Options: []string{
					"Yes, a Child Development Center",
					"Yes, Family Child Care",
					"Yes, a fee assistance program",
					AnswerNoPrograms,
				},
				Required: true,
			},
			{
				ID:          QProgramPreference,
				Kind:        KindMultiChoice,
				Title:       "What would improve your current program?",
				Description: "Select all that apply.",
				Options: []string{
					"Shorter waitlists",
					"Extended hours",
					"Lower fees",
					"More locations",
				},
				AllowOther:  true,
				HasFollowUp: true,
				When:        NotEquals{Question: QCurrentPrograms, Value: AnswerNoPrograms},
			},
			{
				ID:          QBaccSupport,
				Kind:        KindSingleChoice,
				Title:       "Basic Allowance for Child Care",
				Statement:   "A monthly childcare allowance would improve my family's readiness and retention.",
				Options:     likertScale,
				HasFollowUp: true,
				Required:    true,
			},
			{
				ID:          QPriorities,
				Kind:        KindMultiChoice,
				Title:       "Which outcomes matter most to you?",
				Description: "Select all that apply, in order of importance.",
				Options: []string{
					"Spouse employment",
					"Family finances",
					"Deployment readiness",
					"Child development",
					"Staying in the service",
				},
				AllowOther:  true,
				HasFollowUp: true,
			},
			{
				ID:      QThankYou,
				Kind:    KindInfo,
				Title:   "Thank you",
				Content: "Press Finish to submit your answers.",
			},
		},
	}
}
