package domain

import "strings"

// Section is a titled group of consecutive narrative paragraphs.
type Section struct {
	Title      string   `json:"title" yaml:"title"`
	Icon       string   `json:"icon" yaml:"icon"`
	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`
}

// NoNarrativeText stands in for an empty narrative.
const NoNarrativeText = "No narrative available."

type sectionRule struct {
	title    string
	icon     string
	triggers []string
}

var (
	currentStateRule = sectionRule{title: "Current State", icon: "📍"}
	observationRule  = sectionRule{title: "Observation", icon: "📝"}
)

// sectionRules are evaluated in order; the first rule with a matching
// trigger wins, regardless of how specific later rules are.
var sectionRules = []sectionRule{
	{title: "What Can Help", icon: "💡", triggers: []string{"what can help", "what could help"}},
	{title: "How To Mitigate", icon: "🛡️", triggers: []string{"how to mitigate", "mitigation"}},
	{title: "Actions We Can Take", icon: "👥", triggers: []string{"what humans", "people could", "we should"}},
	{title: "Why This Matters", icon: "🔍", triggers: []string{"because", "due to", "caused by"}},
	{title: "Environmental Impact", icon: "⚠️", triggers: []string{"impact", "consequence", "effect"}},
	{title: "Looking Ahead", icon: "🔮", triggers: []string{"future", "will", "expect"}},
	{title: "The Data", icon: "📊", triggers: []string{"data shows", "reading", "measure"}},
	{title: "Recommendations", icon: "💡", triggers: []string{"suggest", "recommend", "advice"}},
}

// Segment splits narrative prose on blank lines and groups the paragraphs
// into titled sections. The first paragraph is always "Current State".
// Adjacent paragraphs with the same title share a section; the same title
// appearing again later starts a new one.
func Segment(narrative string) []Section {
	paragraphs := splitParagraphs(narrative)
	if len(paragraphs) == 0 {
		paragraphs = []string{NoNarrativeText}
	}

	var sections []Section
	for i, p := range paragraphs {
		rule := classifyParagraph(i, p)
		if n := len(sections); n > 0 && sections[n-1].Title == rule.title {
			sections[n-1].Paragraphs = append(sections[n-1].Paragraphs, p)
			continue
		}
		sections = append(sections, Section{
			Title:      rule.title,
			Icon:       rule.icon,
			Paragraphs: []string{p},
		})
	}
	return sections
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func classifyParagraph(index int, paragraph string) sectionRule {
	if index == 0 {
		return currentStateRule
	}
	lower := strings.ToLower(paragraph)
	for _, rule := range sectionRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				return rule
			}
		}
	}
	return observationRule
}
