package population

import "github.com/jonathan/resume-rebuilder/internal/types"

// Placeholder tokens recognized in templates. Tokens are fixed literal
// strings and must sit wholly within a single run of the template.
const (
	TokenName        = "{NAME}"
	TokenContact     = "{CONTACT}"
	TokenEmail       = "{EMAIL}"
	TokenNationality = "{NATIONALITY}"
	TokenSummary     = "{SUMMARY}"
	TokenEducation   = "{EDUCATION}"

	TokenDegree      = "{DEGREE}"
	TokenInstitution = "{INSTITUTION}"
	TokenEduYear     = "{EDUYEAR}"
	TokenCGPA        = "{CGPA}"

	TokenSkills    = "{SKILLS}"
	TokenLanguages = "{LANGUAGES}"

	TokenCompanyName    = "{COMPANYNAME}"
	TokenDuration       = "{DURATION}"
	TokenJobTitle       = "{JOBTITLE}"
	TokenJobDescription = "{JOBDESCRIPTION}"
	TokenAchievements   = "{ACHIEVEMENTS}"
)

// scalarBinding pairs a token with the profile field that replaces it.
// A slice keeps substitution order deterministic.
type scalarBinding struct {
	token string
	value func(*types.ResumeProfile) string
}

// scalarBindings covers the in-place scalar tokens. {EDUCATION} is a legacy
// section marker some templates carry; it always renders blank so no literal
// token survives in the output.
var scalarBindings = []scalarBinding{
	{TokenName, func(p *types.ResumeProfile) string { return p.Name }},
	{TokenContact, func(p *types.ResumeProfile) string { return p.ContactNumber }},
	{TokenEmail, func(p *types.ResumeProfile) string { return p.Email }},
	{TokenNationality, func(p *types.ResumeProfile) string { return p.Nationality }},
	{TokenSummary, func(p *types.ResumeProfile) string { return p.Summary }},
	{TokenEducation, func(*types.ResumeProfile) string { return "" }},
}

// educationTokens is the tag set identifying education template rows.
var educationTokens = []string{TokenDegree, TokenInstitution, TokenEduYear, TokenCGPA}

// workTokens is the tag set identifying work-experience template rows.
var workTokens = []string{TokenCompanyName, TokenDuration, TokenJobTitle, TokenJobDescription, TokenAchievements}
