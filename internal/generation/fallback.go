package generation

import "strings"

const (
	noKnowledgeAnswer = "I don't know based on the current knowledge base."
	noContentSummary  = "No content to summarize."
	fallbackNotice    = "(Answer assembled from retrieved passages; configure a provider credential for generated answers.)"
)

var positiveWords = []string{"good", "great", "excellent", "amazing", "love", "like", "happy", "positive", "fantastic", "enjoy"}
var negativeWords = []string{"bad", "terrible", "awful", "hate", "dislike", "sad", "angry", "negative", "horrible", "worst"}

// extractiveAnswer quotes the two best retrieval hits verbatim as a degraded
// answer when no generation provider is available.
func extractiveAnswer(contexts []string) string {
	top := contexts
	if len(top) > 2 {
		top = top[:2]
	}
	joined := strings.TrimSpace(strings.Join(top, " "))
	if joined == "" {
		return noKnowledgeAnswer
	}
	return joined + "\n\n" + fallbackNotice
}

// heuristicSummary returns the first three sentences of text.
func heuristicSummary(text string) string {
	sentences := splitSentences(strings.TrimSpace(text))
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	out := strings.Join(sentences, " ")
	if out == "" {
		return noContentSummary
	}
	return out
}

// splitSentences splits on sentence-ending punctuation followed by whitespace.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && isSpace(text[i+1]) {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// heuristicSentiment counts fixed positive and negative keywords in the
// lowercased text. The score is the signed count difference; the label
// follows its sign, neutral on a tie.
func heuristicSentiment(text string) Sentiment {
	t := strings.ToLower(text)
	score := 0
	for _, w := range positiveWords {
		if strings.Contains(t, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(t, w) {
			score--
		}
	}
	label := "neutral"
	switch {
	case score > 0:
		label = "positive"
	case score < 0:
		label = "negative"
	}
	return Sentiment{Label: label, Score: float64(score)}
}
