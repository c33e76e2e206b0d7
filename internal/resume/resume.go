// Package resume defines the structured candidate data model and its
// plain-text rendering used in LLM prompts and the details API.
package resume

// Location is the candidate's location.
type Location struct {
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Region      string `json:"region,omitempty"`
}

// Profile is a social profile such as LinkedIn or GitHub.
type Profile struct {
	Network  string `json:"network,omitempty"`
	Username string `json:"username,omitempty"`
	URL      string `json:"url,omitempty"`
}

// WorkItem is one entry of work experience.
type WorkItem struct {
	Name       string   `json:"name,omitempty"`
	Position   string   `json:"position,omitempty"`
	URL        string   `json:"url,omitempty"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// VolunteerItem is one entry of volunteer experience.
type VolunteerItem struct {
	Organization string   `json:"organization,omitempty"`
	Position     string   `json:"position,omitempty"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// EducationItem is one entry of education history.
type EducationItem struct {
	Institution string   `json:"institution,omitempty"`
	URL         string   `json:"url,omitempty"`
	Area        string   `json:"area,omitempty"`
	StudyType   string   `json:"study_type,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Score       string   `json:"score,omitempty"`
	Courses     []string `json:"courses,omitempty"`
}

// Award is a notable award the candidate received.
type Award struct {
	Title   string `json:"title,omitempty"`
	Date    string `json:"date,omitempty"`
	Awarder string `json:"awarder,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// Certificate is a professional certificate.
type Certificate struct {
	Name   string `json:"name,omitempty"`
	Date   string `json:"date,omitempty"`
	Issuer string `json:"issuer,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Publication is a published work.
type Publication struct {
	Name        string `json:"name,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	URL         string `json:"url,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

// Skill is a professional skill.
type Skill struct {
	Name     string   `json:"name,omitempty"`
	Level    string   `json:"level,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Language is a spoken language and fluency level.
type Language struct {
	Language string `json:"language,omitempty"`
	Fluency  string `json:"fluency,omitempty"`
}

// Interest is a personal interest.
type Interest struct {
	Name     string   `json:"name,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Reference is a personal or professional reference.
type Reference struct {
	Name      string `json:"name,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// Project is a notable project.
type Project struct {
	Name        string   `json:"name,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Industry is a predicted industry with a confidence score in [0, 1].
type Industry struct {
	Name       string  `json:"name,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Prediction holds model-predicted attributes of the candidate.
type Prediction struct {
	Industries []Industry `json:"industries,omitempty"`
}

// JSONResume is the structured candidate record extracted from an uploaded
// resume. The shape follows the jsonresume.org schema with a few additions
// (gender, dob, industry prediction).
type JSONResume struct {
	Name       string          `json:"name,omitempty"`
	Gender     string          `json:"gender,omitempty"`
	DOB        string          `json:"dob,omitempty"`
	Label      string          `json:"label,omitempty"`
	Image      string          `json:"image,omitempty"`
	Email      string          `json:"email,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	URL        string          `json:"url,omitempty"`
	Objective  string          `json:"objective,omitempty"`
	Location   *Location       `json:"location,omitempty"`
	Profiles   []Profile       `json:"profiles,omitempty"`
	Work       []WorkItem      `json:"work,omitempty"`
	Volunteer  []VolunteerItem `json:"volunteer,omitempty"`
	Education  []EducationItem `json:"education,omitempty"`
	Awards     []Award         `json:"awards,omitempty"`
	Certs      []Certificate   `json:"certificates,omitempty"`
	Pubs       []Publication   `json:"publications,omitempty"`
	Skills     []Skill         `json:"skills,omitempty"`
	Languages  []Language      `json:"languages,omitempty"`
	Interests  []Interest      `json:"interests,omitempty"`
	References []Reference     `json:"references,omitempty"`
	Projects   []Project       `json:"projects,omitempty"`
	Prediction *Prediction     `json:"prediction,omitempty"`
}
