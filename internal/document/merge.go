package document

import (
	"context"

	"github.com/jonathan/resume-forge/internal/types"
)

// MergeAnalysis folds a full-document analysis into doc. Summary and skills are replaced
// only when the result carries them; bullet rewrites apply per id and entities the result
// does not mention are left alone. Score is always replaced.
func MergeAnalysis(doc *types.ResumeDocument, result *types.AnalysisResult) {
	if result == nil {
		return
	}
	if result.Summary != "" {
		doc.Summary = result.Summary
	}
	if len(result.OptimizedSkills) > 0 {
		doc.Skills = make([]types.SkillCategory, len(result.OptimizedSkills))
		for i, c := range result.OptimizedSkills {
			c.Skills = append([]string{}, c.Skills...)
			doc.Skills[i] = c
		}
	}
	for _, rw := range result.ImprovedExperience {
		if i := doc.FindExperience(rw.ID); i >= 0 && rw.Description != nil {
			doc.Experience[i].Description = append([]string{}, rw.Description...)
		}
	}
	for _, rw := range result.ImprovedProjects {
		if i := doc.FindProject(rw.ID); i >= 0 && rw.Description != nil {
			doc.Projects[i].Description = append([]string{}, rw.Description...)
		}
	}
	doc.Score = result.Score
	doc.Score.Feedback = append([]string{}, result.Score.Feedback...)
}

// ApplyAnalysis merges result into the stored document.
func (s *Store) ApplyAnalysis(ctx context.Context, result *types.AnalysisResult) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		MergeAnalysis(doc, result)
		ensureIDs(doc, s.ids)
		return nil
	})
}

// MergeSeed folds sign-in seed data into doc. Non-empty personal info fields overlay the
// current ones, seed projects are appended, and other non-empty seed fields replace the
// document's. Seeded entities get fresh ids so ids are never shared with existing entries.
func MergeSeed(doc *types.ResumeDocument, seed *types.SeedData, ids IDGenerator) {
	if seed == nil {
		return
	}
	overlayPersonalInfo(&doc.PersonalInfo, seed.PersonalInfo)

	if seed.Summary != "" {
		doc.Summary = seed.Summary
	}
	if len(seed.Experience) > 0 {
		doc.Experience = make([]types.Experience, len(seed.Experience))
		for i, e := range seed.Experience {
			e.ID = ids.NewID()
			e.Description = append([]string{}, e.Description...)
			doc.Experience[i] = e
		}
	}
	if len(seed.Education) > 0 {
		doc.Education = make([]types.Education, len(seed.Education))
		for i, e := range seed.Education {
			e.ID = ids.NewID()
			doc.Education[i] = e
		}
	}
	if len(seed.Skills) > 0 {
		doc.Skills = make([]types.SkillCategory, len(seed.Skills))
		for i, c := range seed.Skills {
			c.ID = ids.NewID()
			c.Skills = append([]string{}, c.Skills...)
			doc.Skills[i] = c
		}
	}
	for _, p := range seed.Projects {
		p.ID = ids.NewID()
		p.Description = append([]string{}, p.Description...)
		p.TechStack = append([]string{}, p.TechStack...)
		doc.Projects = append(doc.Projects, p)
	}
	if seed.TemplateID.Valid() {
		doc.TemplateID = seed.TemplateID
	}
	if seed.ThemeColor != "" {
		doc.ThemeColor = seed.ThemeColor
	}
	if seed.Background != "" {
		doc.BackgroundColor = seed.Background
	}
}

// ApplySeed merges sign-in seed data into the stored document.
func (s *Store) ApplySeed(ctx context.Context, seed *types.SeedData) (*types.ResumeDocument, error) {
	return s.Update(ctx, func(doc *types.ResumeDocument) error {
		MergeSeed(doc, seed, s.ids)
		return nil
	})
}

func overlayPersonalInfo(dst *types.PersonalInfo, src types.PersonalInfo) {
	set := func(d *string, v string) {
		if v != "" {
			*d = v
		}
	}
	set(&dst.FullName, src.FullName)
	set(&dst.Email, src.Email)
	set(&dst.Phone, src.Phone)
	set(&dst.Location, src.Location)
	set(&dst.LinkedIn, src.LinkedIn)
	set(&dst.GitHub, src.GitHub)
	set(&dst.Portfolio, src.Portfolio)
	set(&dst.JobTitle, src.JobTitle)
	set(&dst.PhotoURL, src.PhotoURL)
}
