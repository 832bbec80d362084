package service

import (
	"fmt"
	"math/rand"
	"strings"

	"app/internal/model"
	"app/internal/variation"
)

func systemPrompt() string {
	return strings.TrimSpace(`
You are a ghostwriter for founders and operators on LinkedIn. You turn source
material into posts that sound like a sharp practitioner wrote them, not a
marketing department. You never use hashtags, never start with "I'm excited to
share", and never pad with filler. You write in plain language with short
paragraphs and concrete specifics pulled from the source material.
`)
}

// formatRules returns the structural rule block for a format. The format enum
// is closed and request validation rejects anything outside it, so the switch
// is exhaustive over the real inputs; the default exists only to keep the
// function total.
func formatRules(format model.Format) string {
	switch format {
	case model.FormatStoryBased:
		return strings.TrimSpace(`
FORMAT: story-based post (1300-2000 characters).
- Open with a moment in time, not a summary. Put the reader in the scene.
- One narrative thread: situation, complication, what changed, what it means.
- End with the lesson stated in one or two plain sentences.
`)
	case model.FormatCarousel:
		return strings.TrimSpace(`
FORMAT: carousel script (one slide per line block, 6-9 slides).
- Slide 1 is the hook: a claim or number that earns the swipe.
- One idea per slide, maximum two short lines each.
- Final slide restates the core takeaway and invites a response.
`)
	case model.FormatShortViralHook:
		return strings.TrimSpace(`
FORMAT: short punch post (under 500 characters).
- Two to five lines total. Every line must survive on its own.
- No setup, no context. The first line is the whole argument compressed.
`)
	case model.FormatMainPost:
		return mainPostRules()
	default:
		return mainPostRules()
	}
}

func mainPostRules() string {
	return strings.TrimSpace(`
FORMAT: main post (1200-1800 characters).
- First line is the hook. It must create a curiosity gap or challenge a belief.
- Line two expands the hook; then 3-5 short paragraphs developing one idea.
- White space is part of the writing. No paragraph over three lines.
- Close with one question or statement that invites replies.
`)
}

// instructionPrompt assembles the styling layer from the caller-supplied
// context and the drawn variation set.
func instructionPrompt(format model.Format, genCtx model.GenerateContext, regenerate bool, v variation.Set) string {
	var b strings.Builder

	b.WriteString(formatRules(format))
	b.WriteString("\n\nSTYLE DIRECTION:\n")
	fmt.Fprintf(&b, "- Write as %s: %s\n", v.Voice.Name, v.Voice.Style)
	fmt.Fprintf(&b, "- Target feeling: %s (the reader should think: %q).\n", v.Tone.Name, v.Tone.Trigger)
	fmt.Fprintf(&b, "- Model the opening on this hook structure (adapt it, do not fill it in literally): %q\n", v.Hook)
	fmt.Fprintf(&b, "- Close with something in the spirit of: %q\n", v.CTA)

	if genCtx.TonePreset != "" {
		fmt.Fprintf(&b, "- Overall register: %s.\n", genCtx.TonePreset)
	}
	if genCtx.ReaderContext != "" {
		fmt.Fprintf(&b, "- The reader is: %s. Speak to them directly.\n", genCtx.ReaderContext)
	}
	if genCtx.Angle != "" {
		fmt.Fprintf(&b, "- Approach the material through this lens: %s.\n", genCtx.Angle)
	}
	if genCtx.EmojiOn {
		b.WriteString("- Use at most two emojis, only where they replace words.\n")
	} else {
		b.WriteString("- Do not use any emojis.\n")
	}

	if regenerate {
		b.WriteString("\nThis is a regeneration. The previous attempt was rejected. Produce a materially different post: a different opening, a different framing, a different structure. Do not paraphrase the earlier angle.\n")
	}

	return b.String()
}

// userPrompt wraps the normalized source material. Triple double-quotes in
// the source are rewritten so they cannot terminate the delimiter early, and
// a random nonce defeats backend-side output caching.
func userPrompt(input string) string {
	safe := strings.ReplaceAll(input, `"""`, "'''")
	return fmt.Sprintf("Source material:\n\"\"\"\n%s\n\"\"\"\n\nWrite the post now. Return only the post text, no commentary. (request-id: %d)", safe, rand.Int63())
}

func seriesSystemPrompt() string {
	return systemPrompt() + "\n\nYou are writing a connected series of four posts that together tell one larger story. Each post stands alone, but read in order they form an arc."
}

// seriesUserPrompt demands four delimited segments, one per narrative stage,
// each following its own format's structural rules and its own variation set.
func seriesUserPrompt(input string, formats []model.Format, sets []variation.Set) string {
	stages := []string{
		"Post 1 sets the context: the situation and the stakes.",
		"Post 2 is the tension: the mistake, the failure, what went wrong.",
		"Post 3 is the turn: the insight or decision that changed the outcome.",
		"Post 4 is the payoff: the result and what the reader should take away.",
	}

	var b strings.Builder
	b.WriteString("Write a four-post series from the source material below. Output each post between its own marker line, exactly like this:\n\n---POST_1---\n<post 1>\n---POST_2---\n<post 2>\n---POST_3---\n<post 3>\n---POST_4---\n<post 4>\n\nReturn nothing outside the markers.\n\n")

	for i, stage := range stages {
		fmt.Fprintf(&b, "== POST %d ==\n%s\n%s\n\n", i+1, stage, instructionPrompt(formats[i], model.GenerateContext{}, false, sets[i]))
	}

	b.WriteString(userPrompt(input))
	return b.String()
}
