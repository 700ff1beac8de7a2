package ai

import (
	_ "embed"
	"strings"

	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
)

//go:embed prompt.md
var promptTemplate string

// resumeCharBudget bounds how much resume text is embedded in the prompt so
// a long document cannot blow through provider token limits.
const resumeCharBudget = 3000

// BuildPrompt renders the evaluation prompt for one (resume, job) pair.
// The resume text is truncated to resumeCharBudget characters.
func BuildPrompt(resumeText string, job *screening.JobDescription) string {
	resume := strings.TrimSpace(resumeText)
	if runes := []rune(resume); len(runes) > resumeCharBudget {
		resume = string(runes[:resumeCharBudget])
	}

	replacer := strings.NewReplacer(
		"{{JOB_TITLE}}", job.Title,
		"{{COMPANY}}", job.Company,
		"{{JOB_DESCRIPTION}}", job.Description,
		"{{MUST_HAVE_SKILLS}}", joinOrNone(job.MustHaveSkills),
		"{{GOOD_TO_HAVE_SKILLS}}", joinOrNone(job.GoodToHaveSkills),
		"{{EXPERIENCE_REQUIRED}}", orNone(job.ExperienceRequired),
		"{{EDUCATION_REQUIRED}}", joinOrNone(job.EducationRequired),
		"{{RESUME_TEXT}}", resume,
	)

	return replacer.Replace(promptTemplate)
}

func joinOrNone(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	if len(cleaned) == 0 {
		return "none specified"
	}
	return strings.Join(cleaned, ", ")
}

func orNone(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "none specified"
	}
	return s
}
