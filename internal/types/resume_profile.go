// Package types defines the shared data structures exchanged between
// pipeline stages.
package types

// ResumeProfile is the structured form of a resume as returned by the LLM
// structuring stage and consumed by template population.
//
// Every field has a declared default: scalar fields absent from (or null in)
// the source JSON decode to the empty string, list fields to nil slices that
// Normalize turns into empty slices. Population never sees a missing field.
type ResumeProfile struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Nationality   string `json:"nationality"`
	Summary       string `json:"summary"`

	Skills    []string `json:"skills"`
	Languages []string `json:"languages"`

	Education      []Education      `json:"education"`
	WorkExperience []WorkExperience `json:"work_experience"`
}

// Education is one education entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	CGPA        string `json:"cgpa"`
}

// WorkExperience is one work-experience entry.
type WorkExperience struct {
	CompanyName    string   `json:"company_name"`
	Duration       string   `json:"duration"`
	JobTitle       string   `json:"job_title"`
	JobDescription []string `json:"job_description"`
	Achievements   []string `json:"achievements"`
}

// Normalize replaces nil list fields with empty slices, recursively. After
// Normalize a profile can be iterated without nil checks and serializes with
// [] instead of null.
func (p *ResumeProfile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.WorkExperience == nil {
		p.WorkExperience = []WorkExperience{}
	}
	for i := range p.WorkExperience {
		if p.WorkExperience[i].JobDescription == nil {
			p.WorkExperience[i].JobDescription = []string{}
		}
		if p.WorkExperience[i].Achievements == nil {
			p.WorkExperience[i].Achievements = []string{}
		}
	}
}
