// Package sentiment derives discrete sentiment and subjectivity labels from
// free text using the VADER lexicon. Scoring is pure and deterministic: the
// same text always yields the same labels, and both labels are always
// computed together from the same input.
package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

type SentimentLabel string

const (
	Positive SentimentLabel = "Positive"
	Negative SentimentLabel = "Negative"
	Neutral  SentimentLabel = "Neutral"
)

type SubjectivityLabel string

const (
	Subjective SubjectivityLabel = "Subjective"
	Objective  SubjectivityLabel = "Objective"
	Mixed      SubjectivityLabel = "Mixed"
)

// Classifier scores text polarity in [-1,1] and subjectivity in [0,1].
type Classifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewClassifier() *Classifier {
	return &Classifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Scores returns the raw polarity and subjectivity scores. Empty or
// whitespace-only input scores zero on both axes. Subjectivity is the
// proportion of sentiment-bearing mass in the lexicon scores.
func (c *Classifier) Scores(text string) (polarity, subjectivity float64) {
	if strings.TrimSpace(text) == "" {
		return 0, 0
	}
	s := c.analyzer.PolarityScores(text)
	return s.Compound, s.Positive + s.Negative
}

// Classify returns both labels, thresholded from the same pair of scores.
// Empty input is Neutral/Mixed: with nothing to score there is no basis to
// call the text fact-based.
func (c *Classifier) Classify(text string) (SentimentLabel, SubjectivityLabel) {
	if strings.TrimSpace(text) == "" {
		return Neutral, Mixed
	}
	polarity, subjectivity := c.Scores(text)
	return LabelPolarity(polarity), LabelSubjectivity(subjectivity)
}

// LabelPolarity maps a polarity score to a label. The boundaries 0.3 and
// -0.3 themselves map to Neutral.
func LabelPolarity(polarity float64) SentimentLabel {
	switch {
	case polarity > 0.3:
		return Positive
	case polarity < -0.3:
		return Negative
	default:
		return Neutral
	}
}

// LabelSubjectivity maps a subjectivity score to a label. The boundaries
// 0.6 and 0.4 themselves map to Mixed.
func LabelSubjectivity(subjectivity float64) SubjectivityLabel {
	switch {
	case subjectivity > 0.6:
		return Subjective
	case subjectivity < 0.4:
		return Objective
	default:
		return Mixed
	}
}
