package exercise

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a professional English teacher who excels at creating appropriate reading materials for young learners.`

// maxPromptWords caps how many word-bank terms are embedded in the
// prompt; larger banks are summarized by a count.
const maxPromptWords = 50

var typeDescriptions = map[ArticleType]string{
	TypeStory:   "an engaging narrative story with characters and plot",
	TypeScience: "a scientific article explaining a concept or phenomenon",
	TypeNature:  "an article about nature, animals, plants, or environmental topics",
	TypeHistory: "a historical article about events, people, or periods from the past",
}

// buildUserMessage constructs the generation prompt. When the word bank
// is empty the vocabulary constraint is omitted entirely so the article
// is driven by the Lexile level alone.
func buildUserMessage(profile LearnerProfile, articleType ArticleType) string {
	typeDesc, ok := typeDescriptions[articleType]
	if !ok {
		typeDesc = typeDescriptions[TypeStory]
	}

	var b strings.Builder

	b.WriteString("Generate an English reading article and 5 test questions based on the following information:\n\n")
	b.WriteString("Learner:\n")
	fmt.Fprintf(&b, "- Age: %d years old\n", profile.Age)
	fmt.Fprintf(&b, "- Lexile Level: %d (grammar and sentence complexity indicator)\n", profile.Lexile)
	fmt.Fprintf(&b, "- Article Type: %s - create %s\n", articleType, typeDesc)

	if len(profile.WordBank) > 0 {
		fmt.Fprintf(&b, "\nWord Bank: %s\n", formatWordBank(profile.WordBank))
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString("1. Article length: 150-250 words\n")
	fmt.Fprintf(&b, "2. The article MUST be %s\n", typeDesc)
	if len(profile.WordBank) > 0 {
		b.WriteString("3. Use at least 80% of the words from the word bank\n")
		fmt.Fprintf(&b, "4. Grammar difficulty should match Lexile level %d\n", profile.Lexile)
		fmt.Fprintf(&b, "5. Content should be age-appropriate, interesting, and educational for %d-year-old students\n", profile.Age)
	} else {
		fmt.Fprintf(&b, "3. Vocabulary and grammar difficulty should STRICTLY match Lexile level %d\n", profile.Lexile)
		fmt.Fprintf(&b, "4. Content should be age-appropriate, interesting, and educational for %d-year-old students\n", profile.Age)
		b.WriteString(lexileGuidance(profile.Lexile))
	}

	b.WriteString(`
Test questions, exactly 5 in this order:
- 2 multiple choice questions (type "multiple_choice", exactly 4 options prefixed "A." through "D.", correct_answer is the letter alone)
- 2 fill-in-the-blank questions (type "fill_blank", use ___ for the blank, correct_answer is the missing word or phrase)
- 1 true/false question (type "true_false", correct_answer is "true" or "false")
`)

	return b.String()
}

// lexileGuidance returns the complexity band hint for pure-Lexile
// generation (no word bank to anchor difficulty).
func lexileGuidance(lexile int) string {
	var band string
	switch {
	case lexile < 400:
		band = "Use simple present/past tense, basic vocabulary, short sentences"
	case lexile < 600:
		band = "Introduce complex sentences and common phrasal verbs"
	case lexile < 800:
		band = "Use more varied tenses, intermediate vocabulary, compound sentences"
	case lexile < 1000:
		band = "Use advanced grammar structures and academic vocabulary"
	default:
		band = "Use complex syntax, sophisticated vocabulary, nuanced expressions"
	}
	return fmt.Sprintf("5. %s\n", band)
}

func formatWordBank(words []string) string {
	if len(words) <= maxPromptWords {
		return strings.Join(words, ", ")
	}
	s := strings.Join(words[:maxPromptWords], ", ")
	return fmt.Sprintf("%s (and %d more words)", s, len(words)-maxPromptWords)
}
