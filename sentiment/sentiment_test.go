package sentiment

import "testing"

func TestLabelPolarity(t *testing.T) {
	cases := []struct {
		polarity float64
		want     SentimentLabel
	}{
		{0.31, Positive},
		{1, Positive},
		{0.3, Neutral},
		{0, Neutral},
		{-0.3, Neutral},
		{-0.31, Negative},
		{-1, Negative},
	}
	for _, tc := range cases {
		if got := LabelPolarity(tc.polarity); got != tc.want {
			t.Errorf("LabelPolarity(%v) = %s, want %s", tc.polarity, got, tc.want)
		}
	}
}

func TestLabelSubjectivity(t *testing.T) {
	cases := []struct {
		subjectivity float64
		want         SubjectivityLabel
	}{
		{0.61, Subjective},
		{1, Subjective},
		{0.6, Mixed},
		{0.5, Mixed},
		{0.4, Mixed},
		{0.39, Objective},
		{0, Objective},
	}
	for _, tc := range cases {
		if got := LabelSubjectivity(tc.subjectivity); got != tc.want {
			t.Errorf("LabelSubjectivity(%v) = %s, want %s", tc.subjectivity, got, tc.want)
		}
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	c := NewClassifier()
	for _, text := range []string{"", "   ", "\n\t"} {
		polarity, subjectivity := c.Scores(text)
		if polarity != 0 || subjectivity != 0 {
			t.Fatalf("Scores(%q) = %v, %v, want 0, 0", text, polarity, subjectivity)
		}
		sent, subj := c.Classify(text)
		if sent != Neutral || subj != Mixed {
			t.Fatalf("Classify(%q) = %s, %s, want Neutral, Mixed", text, sent, subj)
		}
	}
}

func TestClassifyPolarityDirection(t *testing.T) {
	c := NewClassifier()

	sent, _ := c.Classify("This is absolutely wonderful, amazing and excellent news!")
	if sent != Positive {
		t.Errorf("positive text classified as %s", sent)
	}

	sent, _ = c.Classify("This is horrible, terrible, awful and disgusting.")
	if sent != Negative {
		t.Errorf("negative text classified as %s", sent)
	}
}
