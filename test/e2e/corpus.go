// Package e2e holds the fixture corpus and end-to-end tests that drive the
// full HTTP stack.
package e2e

// Document is one ingestable fixture with a stable identifier carried in its
// metadata so query assertions can recognize it among the retrieved contexts.
type Document struct {
	ID   string
	Text string
}

// QueryCase is one retrieval assertion: the query must surface at least one
// of the expected documents among its contexts.
type QueryCase struct {
	Description    string
	Query          string
	ExpectedDocIDs []string
}

// Corpus bundles the fixtures and their query cases.
type Corpus struct {
	Documents []Document
	TestCases []QueryCase
}

// BuildCorpus returns a small fixed corpus. Texts use distinctive vocabulary
// so the deterministic fallback embedder can separate them by token overlap.
func BuildCorpus() Corpus {
	return Corpus{
		Documents: []Document{
			{
				ID:   "astronomy",
				Text: "Telescopes collect light from distant galaxies. A nebula glows where new stars ignite.",
			},
			{
				ID:   "cooking",
				Text: "Simmer the tomato sauce slowly and season with basil. Fresh pasta cooks in three minutes.",
			},
			{
				ID:   "cycling",
				Text: "Check the bicycle chain tension before a long ride. Carry a spare inner tube and a pump.",
			},
			{
				ID:   "finance",
				Text: "Compound interest grows savings over decades. Diversify investments to reduce portfolio risk.",
			},
		},
		TestCases: []QueryCase{
			{
				Description:    "astronomy vocabulary finds the astronomy document",
				Query:          "telescopes and distant galaxies",
				ExpectedDocIDs: []string{"astronomy"},
			},
			{
				Description:    "cooking vocabulary finds the cooking document",
				Query:          "tomato sauce with basil",
				ExpectedDocIDs: []string{"cooking"},
			},
			{
				Description:    "cycling vocabulary finds the cycling document",
				Query:          "bicycle chain and spare tube",
				ExpectedDocIDs: []string{"cycling"},
			},
			{
				Description:    "finance vocabulary finds the finance document",
				Query:          "compound interest and investments",
				ExpectedDocIDs: []string{"finance"},
			},
		},
	}
}
