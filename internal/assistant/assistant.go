// Package assistant is the boundary to the generative model: full-document analysis,
// single-fragment refinement and skill suggestions. Every failure leaving this package
// is an *llm.Error carrying a classification and a user-facing message.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/prompts"
	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/types"
)

// Adapter is the AI capability the wizard, proposals and skill suggestions depend on
type Adapter interface {
	AnalyzeDocument(ctx context.Context, doc *types.ResumeDocument) (*types.AnalysisResult, error)
	RefineFragment(ctx context.Context, text, contextHint string) (string, error)
	SuggestSkills(ctx context.Context, doc *types.ResumeDocument) (*types.SkillSuggestions, error)
}

// LLMAdapter implements Adapter over an llm.Client
type LLMAdapter struct {
	client llm.Client
}

// New returns an adapter backed by client.
func New(client llm.Client) *LLMAdapter {
	return &LLMAdapter{client: client}
}

// rawAnalysis mirrors types.AnalysisResult but accepts fractional scores
type rawAnalysis struct {
	Summary            string                     `json:"summary"`
	OptimizedSkills    []types.SkillCategory      `json:"optimized_skills"`
	ImprovedExperience []types.DescriptionRewrite `json:"improved_experience"`
	ImprovedProjects   []types.DescriptionRewrite `json:"improved_projects"`
	Score              struct {
		ATS         float64  `json:"ats"`
		Readability float64  `json:"readability"`
		Depth       float64  `json:"depth"`
		Feedback    []string `json:"feedback"`
	} `json:"score"`
}

// AnalyzeDocument asks the model to rewrite and score the whole document.
func (a *LLMAdapter) AnalyzeDocument(ctx context.Context, doc *types.ResumeDocument) (*types.AnalysisResult, error) {
	prompt, err := analysisPrompt(doc)
	if err != nil {
		return nil, llm.Classify(err)
	}

	resp, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, llm.Classify(err)
	}
	body := llm.ExtractJSONObject(llm.CleanJSONBlock(resp))
	if strings.TrimSpace(body) == "" {
		return nil, llm.Classify(fmt.Errorf("AI returned empty response"))
	}

	if err := schemas.Validate(schemas.AnalysisSchema, []byte(body)); err != nil {
		return nil, llm.Classify(fmt.Errorf("analysis response rejected: %w", err))
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, llm.Classify(fmt.Errorf("failed to parse analysis response: %w", err))
	}

	return &types.AnalysisResult{
		Summary:            strings.TrimSpace(raw.Summary),
		OptimizedSkills:    raw.OptimizedSkills,
		ImprovedExperience: raw.ImprovedExperience,
		ImprovedProjects:   raw.ImprovedProjects,
		Score: types.Score{
			ATS:         percent(raw.Score.ATS),
			Readability: percent(raw.Score.Readability),
			Depth:       percent(raw.Score.Depth),
			Feedback:    raw.Score.Feedback,
		},
	}, nil
}

// RefineFragment rewrites text, or generates fresh bullets when text is blank.
func (a *LLMAdapter) RefineFragment(ctx context.Context, text, contextHint string) (string, error) {
	resp, err := a.client.GenerateContent(ctx, FragmentPrompt(text, contextHint), llm.TierLite)
	if err != nil {
		return "", llm.Classify(err)
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", llm.Classify(fmt.Errorf("AI returned empty response"))
	}
	return resp, nil
}

// SuggestSkills asks for technical and soft skills that fit the document.
func (a *LLMAdapter) SuggestSkills(ctx context.Context, doc *types.ResumeDocument) (*types.SkillSuggestions, error) {
	prompt := prompts.Format(prompts.MustGet(prompts.AssistantFile, prompts.KeySuggestSkill), map[string]string{
		"Context": SkillContext(doc),
	})

	resp, err := a.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, llm.Classify(err)
	}
	body := llm.ExtractJSONObject(llm.CleanJSONBlock(resp))
	if err := schemas.Validate(schemas.SuggestionsSchema, []byte(body)); err != nil {
		return nil, llm.Classify(fmt.Errorf("suggestions response rejected: %w", err))
	}

	var out types.SkillSuggestions
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, llm.Classify(fmt.Errorf("failed to parse suggestions response: %w", err))
	}
	return &out, nil
}

// FragmentPrompt builds the refine prompt, or the generate prompt when text is blank.
func FragmentPrompt(text, contextHint string) string {
	if strings.TrimSpace(text) == "" {
		return prompts.Format(prompts.MustGet(prompts.AssistantFile, prompts.KeyGenerate), map[string]string{
			"Context": contextHint,
		})
	}
	return prompts.Format(prompts.MustGet(prompts.AssistantFile, prompts.KeyRefine), map[string]string{
		"Text":    text,
		"Context": contextHint,
	})
}

// SkillContext is the document digest sent with skill suggestion requests.
func SkillContext(doc *types.ResumeDocument) string {
	orNA := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "N/A"
		}
		return s
	}

	title := doc.PersonalInfo.JobTitle
	if strings.TrimSpace(title) == "" {
		title = "Professional"
	}

	roles := make([]string, 0, len(doc.Experience))
	for _, e := range doc.Experience {
		roles = append(roles, fmt.Sprintf("%s at %s", e.Role, e.Company))
	}
	names := make([]string, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		names = append(names, p.Name)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Target Job Description: %s\n", orNA(doc.TargetJobDescription)))
	sb.WriteString(fmt.Sprintf("Job Title: %s\n", title))
	sb.WriteString(fmt.Sprintf("Summary: %s\n", orNA(doc.Summary)))
	sb.WriteString(fmt.Sprintf("Experience: %s\n", orNA(strings.Join(roles, ", "))))
	sb.WriteString(fmt.Sprintf("Projects: %s", orNA(strings.Join(names, ", "))))
	return sb.String()
}

func analysisPrompt(doc *types.ResumeDocument) (string, error) {
	// The score is an output of analysis, not an input
	in := doc.Clone()
	in.Score = types.Score{}
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	jobContext := doc.TargetJobDescription
	if strings.TrimSpace(jobContext) == "" {
		jobContext = "N/A"
	}

	return prompts.Format(prompts.MustGet(prompts.AssistantFile, prompts.KeyAnalyze), map[string]string{
		"Purpose":    doc.Purpose.Label(),
		"JobContext": jobContext,
		"Document":   string(data),
	}), nil
}

func percent(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// Unconfigured is used when no API key is available. Every call fails as misconfigured,
// which the wizard degrades to proceeding without AI.
type Unconfigured struct{}

func (Unconfigured) err() error {
	return &llm.Error{Kind: llm.KindMisconfigured, Message: llm.MessageMisconfigured}
}

// AnalyzeDocument always fails.
func (u Unconfigured) AnalyzeDocument(context.Context, *types.ResumeDocument) (*types.AnalysisResult, error) {
	return nil, u.err()
}

// RefineFragment always fails.
func (u Unconfigured) RefineFragment(context.Context, string, string) (string, error) {
	return "", u.err()
}

// SuggestSkills always fails.
func (u Unconfigured) SuggestSkills(context.Context, *types.ResumeDocument) (*types.SkillSuggestions, error) {
	return nil, u.err()
}
