package app

// Style is one of the three fixed rewrite styles. Instruction text, best_for
// blurb and baseline scores are static configuration, not runtime-mutable.
type Style struct {
	Name        string
	Instruction string
	BestFor     string
	Clarity     int
	Complexity  int
	Temperature float64
}

const (
	StyleConcise    = "Concise"
	StyleAnalytical = "Analytical"
	StyleCreative   = "Creative"
)

// variantStyles is the fixed response order. Creative runs hotter for more
// lexical variety; the other two stay close to deterministic.
var variantStyles = [3]Style{
	{
		Name: StyleConcise,
		Instruction: "Rewrite the prompt to be as direct and compact as possible. " +
			"Strip filler, state the task in one or two sentences, and keep every constraint the user implied.",
		BestFor:     "quick tasks and direct answers",
		Clarity:     9,
		Complexity:  3,
		Temperature: 0.65,
	},
	{
		Name: StyleAnalytical,
		Instruction: "Rewrite the prompt to demand structured reasoning: ask for explicit steps, " +
			"criteria, comparisons, and evidence, and spell out the desired output format.",
		BestFor:     "research, comparisons, structured reasoning",
		Clarity:     8,
		Complexity:  7,
		Temperature: 0.65,
	},
	{
		Name: StyleCreative,
		Instruction: "Rewrite the prompt to invite originality: add evocative context, loosen constraints " +
			"where the user left room, and encourage unexpected angles while keeping the core ask intact.",
		BestFor:     "brainstorming, storytelling, open-ended writing",
		Clarity:     7,
		Complexity:  6,
		Temperature: 0.85,
	},
}
