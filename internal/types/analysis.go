//nolint:revive // types is a standard Go package name pattern
package types

// DescriptionRewrite replaces the bullet list of one experience or project entry
type DescriptionRewrite struct {
	ID          string   `json:"id"`
	Description []string `json:"description"`
}

// AnalysisResult is the outcome of a full-document AI analysis.
// Empty or absent fields leave the corresponding document fields unchanged.
type AnalysisResult struct {
	Summary            string               `json:"summary"`
	OptimizedSkills    []SkillCategory      `json:"optimized_skills"`
	ImprovedExperience []DescriptionRewrite `json:"improved_experience,omitempty"`
	ImprovedProjects   []DescriptionRewrite `json:"improved_projects,omitempty"`
	Score              Score                `json:"score"`
}

// SkillSuggestions is the AI response for skill suggestions
type SkillSuggestions struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// All returns technical suggestions followed by soft suggestions.
func (s SkillSuggestions) All() []string {
	out := make([]string, 0, len(s.Technical)+len(s.Soft))
	out = append(out, s.Technical...)
	return append(out, s.Soft...)
}
