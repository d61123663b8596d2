package services

import (
	"strings"

	"github.com/sarkie/sarkie-backend/internal/server/models"
)

const (
	personaPrompt       = "You are SARK, an AI that helps users track supplements and health goals."
	noSupplementsPrompt = "No supplements have been added yet."
	noEffectsPrompt     = "No supplement effects have been reported."
	effectsHeader       = "The user has reported the following supplement effects:\n"
	defaultReply        = "I have recorded your supplement."
)

// formatSupplements renders "<name> - <dosage> (<frequency>)" joined by ", ".
func formatSupplements(list []models.Supplement) string {
	if len(list) == 0 {
		return noSupplementsPrompt
	}
	parts := make([]string, 0, len(list))
	for _, s := range list {
		parts = append(parts, s.Name+" - "+s.Dosage+" ("+s.Frequency+")")
	}
	return strings.Join(parts, ", ")
}

func formatEffects(list []models.SupplementEffect) string {
	if len(list) == 0 {
		return noEffectsPrompt
	}
	lines := make([]string, 0, len(list))
	for _, e := range list {
		lines = append(lines, "- "+e.EffectType+": "+e.EffectDescription)
	}
	return effectsHeader + strings.Join(lines, "\n")
}

func buildSystemPrompt(memory, supplements, effects string) string {
	var b strings.Builder
	b.WriteString(personaPrompt)
	if memory != "" {
		b.WriteString(" You also remember past instructions: ")
		b.WriteString(memory)
		b.WriteString(".")
	}
	b.WriteString(" The user is currently taking these supplements: ")
	b.WriteString(supplements)
	b.WriteString(". Additionally, ")
	b.WriteString(effects)
	return b.String()
}

// hasMemoryMarker reports whether reply opens with marker, ignoring case.
func hasMemoryMarker(reply, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(reply)), strings.ToLower(marker))
}
