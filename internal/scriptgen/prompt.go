package scriptgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
)

// Формат локальной даты выпуска в приветствии и заголовке.
const dateLayout = "Monday, January 2, 2006"

// searchQuery — подсказка веб-поиска для категории.
func searchQuery(c models.Category) string {
	switch c {
	case models.CategoryNational:
		return "breaking news today US America CNN ABC CBS Fox NBC"
	case models.CategoryInternational:
		return "world news today international global CNN ABC CBS Fox NBC"
	case models.CategoryBusiness:
		return "business news today stock market economy finance CNBC Bloomberg Fox Business"
	case models.CategorySports:
		return "sports news today NFL NBA MLB ESPN CBS Sports Fox Sports"
	case models.CategoryScience:
		return "science technology news today CNN NBC CBS Wired"
	}

	return string(c) + " news today"
}

// episodeTitle — заголовок эпизода вида "<CategoryName> - <date> <Edition>".
func episodeTitle(req service.ScriptRequest) string {
	return fmt.Sprintf("%s - %s %s",
		req.Category.DisplayName(),
		req.Date.Format(dateLayout),
		req.Edition.Label(),
	)
}

// buildPrompt собирает единый структурированный промпт выпуска:
// фиксированное приветствие с категорией и датой, 2-3 фактических
// предложения на историю, разнообразные переходы, фиксированная концовка.
func buildPrompt(req service.ScriptRequest) string {
	categoryName := req.Category.DisplayName()
	dateStr := req.Date.Format(dateLayout)
	editionLabel := req.Edition.Label()

	var stories strings.Builder
	for i, story := range req.Stories {
		fmt.Fprintf(&stories, "%d. %s\n   Source: %s\n   Summary: %s\n\n",
			i+1, story.Title, story.SourceName, story.Summary)
	}

	return fmt.Sprintf(`You are a news researcher and radio script writer for an audio briefing platform for drivers.

YOUR TASK:
Write a radio news briefing script for the %s edition of the %s briefing on %s, reporting the stories listed below.

CRITICAL REQUIREMENTS:
- Report ONLY real facts from the story summaries%s
- Include real names, real places, real numbers from actual news coverage
- Do NOT make up or fabricate any news
- Each story should be 2-3 sentences with specific factual details
- Professional but warm and conversational tone, easy to follow while driving
- Avoid complex numbers or statistics that are hard to hear

SCRIPT FORMAT:
Start: "Good %s, drivers. This is your %s briefing for %s..."

Then report the stories with varied transitions like:
- "Our top story..."
- "In other news..."
- "Meanwhile..."
- "Also making headlines today..."
- "And finally..."

End: "That's your %s update. Stay safe out there, and we'll see you next time."

Output plain spoken text only: no markdown, no stage directions, no section headers.

===== STORIES =====
%s
Write the complete script now:`,
		editionLabel, categoryName, dateStr,
		webSearchHint(req.Category),
		strings.ToLower(editionLabel), categoryName, dateStr,
		categoryName,
		stories.String(),
	)
}

// webSearchHint дополняет требования подсказкой поиска — маркер для
// модели с включённым инструментом; при выключенном поиске безвреден.
func webSearchHint(c models.Category) string {
	return fmt.Sprintf("; you may verify and enrich them via web search for: %q", searchQuery(c))
}

var (
	reCodeFence  = regexp.MustCompile("(?s)```.*?```")
	reBold       = regexp.MustCompile(`\*\*?`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
	reSpeaker    = regexp.MustCompile(`(?im)^(ANCHOR|HOST|NARRATOR)\s*:\s*`)
)

// sanitizeScript вычищает артефакты модели из текста наррации:
// код-блоки, markdown-выделение, префиксы персонажей, лишние пустые строки.
func sanitizeScript(text string) string {
	clean := reCodeFence.ReplaceAllString(text, "")
	clean = reBold.ReplaceAllString(clean, "")
	clean = reSpeaker.ReplaceAllString(clean, "")
	clean = reBlankLines.ReplaceAllString(clean, "\n\n")

	return strings.TrimSpace(clean)
}
