package variation

// Voice is a writing persona the prompt can adopt.
type Voice struct {
	Name  string
	Style string
}

// EmotionalTone is a high-arousal feeling the post should trigger.
type EmotionalTone struct {
	Name    string
	Trigger string
}

// Hook structures the prompt offers as opening-line templates.
var hookStructures = []string{
	"[X]% of [group] fail at [thing]. Here's why.",
	"Everyone says [common advice]. I did the opposite.",
	"[Common belief] is a lie. Here's the truth.",
	"Stop [common practice]. It's killing your [metric].",
	"I made a $[X] mistake. Here's what I learned.",
	"I wasted [timeframe] doing [thing].",
	"[Thing] will be obsolete by [year].",
	"If you're still [old practice], you're already behind.",
	"The hidden reason your [thing] isn't working.",
	"What nobody tells you about [topic].",
	"After [X] years doing [thing], I found [insight].",
	"I [achieved result] in [timeframe]. Without [expected requirement].",
	"'This will never work,' they told me.",
	"[X] signs your [thing] is about to [fail/succeed].",
	"What if everything you know about [topic] is wrong?",
	"I tracked [metric] for [timeframe]. The pattern was unexpected.",
}

// Voice archetypes with their delivery style.
var voiceArchetypes = []Voice{
	{Name: "THE SURGEON", Style: "Cold, precise, clinical. Data, then logic, then conclusion. No emotion."},
	{Name: "THE STREET FIGHTER", Style: "Blunt, short sentences. Real talk, learned the hard way. No sugarcoating."},
	{Name: "THE ARCHITECT", Style: "System-focused builder. Frameworks and processes. Show the blueprint."},
	{Name: "THE PROFESSOR", Style: "Thoughtful, loves to teach. Breaks down complexity with analogies."},
	{Name: "THE REBEL", Style: "Provocative. Bold claims that challenge the status quo, unapologetic."},
	{Name: "THE INSIDER", Style: "Confidential, between-you-and-me energy. Shares what others keep quiet."},
	{Name: "THE OPERATOR", Style: "Execution-focused. Tactical, specific, actionable, step by step."},
	{Name: "THE SKEPTIC", Style: "Questions everything. Demands proof before believing. Evidence-based."},
	{Name: "THE MINIMALIST", Style: "Says more with less. Every word earns its place."},
	{Name: "THE VETERAN", Style: "Seasoned perspective, calm confidence. Has watched the pattern repeat."},
}

// Emotional tones that drive engagement; low-arousal feelings are excluded.
var emotionalTones = []EmotionalTone{
	{Name: "AWE", Trigger: "I had no idea this was possible"},
	{Name: "ANGER", Trigger: "This is broken and no one is talking about it"},
	{Name: "FEAR", Trigger: "If you don't act, you'll be left behind"},
	{Name: "SURPRISE", Trigger: "This contradicts everything I believed"},
	{Name: "AMUSEMENT", Trigger: "I can't believe this actually works"},
	{Name: "VINDICATION", Trigger: "I knew I was right all along"},
	{Name: "FRUSTRATION", Trigger: "Why does nobody get this?"},
	{Name: "URGENCY", Trigger: "Time is running out"},
	{Name: "CURIOSITY", Trigger: "I need to know more"},
	{Name: "REGRET", Trigger: "I wish I knew this sooner"},
	{Name: "HOPE", Trigger: "Maybe this is possible after all"},
	{Name: "DETERMINATION", Trigger: "I'm going to fix this"},
}

// Conversation-closing lines, rotated to prevent formulaic endings.
var ctaEndings = []string{
	"Change my mind.",
	"Prove me wrong.",
	"Am I the only one who sees this?",
	"What's the hardest lesson you had to learn?",
	"What would you do differently?",
	"Where do you think this is heading?",
	"When did this click for you?",
	"That's the game. Play it or don't.",
	"But that's a story for another time.",
	"Your turn. What's your [source-specific thing]?",
	"Now you. What did I miss?",
	"Ignore this at your own risk.",
}

// Library holds one process-wide selector per style category.
type Library struct {
	Hooks  *Selector[string]
	Voices *Selector[Voice]
	Tones  *Selector[EmotionalTone]
	CTAs   *Selector[string]
}

// NewLibrary builds selectors over the built-in pools.
func NewLibrary() *Library {
	return &Library{
		Hooks:  NewSelector(hookStructures),
		Voices: NewSelector(voiceArchetypes),
		Tones:  NewSelector(emotionalTones),
		CTAs:   NewSelector(ctaEndings),
	}
}

// Set is one coherent combination of style draws for a single generation.
type Set struct {
	Hook  string
	Voice Voice
	Tone  EmotionalTone
	CTA   string
}

// NextSet draws one variation per category.
func (l *Library) NextSet() Set {
	return Set{
		Hook:  l.Hooks.Next(),
		Voice: l.Voices.Next(),
		Tone:  l.Tones.Next(),
		CTA:   l.CTAs.Next(),
	}
}

// SeriesSets draws n sets at once so each post of a series gets a different
// combination.
func (l *Library) SeriesSets(n int) []Set {
	hooks := l.Hooks.Batch(n)
	voices := l.Voices.Batch(n)
	tones := l.Tones.Batch(n)
	ctas := l.CTAs.Batch(n)

	sets := make([]Set, n)
	for i := 0; i < n; i++ {
		sets[i] = Set{Hook: hooks[i], Voice: voices[i], Tone: tones[i], CTA: ctas[i]}
	}
	return sets
}
