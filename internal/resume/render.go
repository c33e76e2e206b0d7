package resume

import (
	"strings"
	"text/template"
)

// resumeTemplate renders a JSONResume as plain text. The output is consumed
// by LLM prompts (reranking, summarization) and the details tool, so it
// favors a compact labeled-section layout over presentation markup.
const resumeTemplate = `Name: {{.Name}}
{{- if .Gender}}
Gender: {{.Gender}}
{{- end}}
{{- if .DOB}}
Date of birth: {{.DOB}}
{{- end}}
{{- if .Email}}
Email: {{.Email}}
{{- end}}
{{- if .Phone}}
Phone: {{.Phone}}
{{- end}}
{{- if .Label}}
Title: {{.Label}}
{{- end}}
{{- if .Location}}
Location: {{join (compact .Location.Address .Location.City .Location.Region .Location.CountryCode) ", "}}
{{- end}}
{{- if .Objective}}

Objective:
{{.Objective}}
{{- end}}
{{- if .Work}}

Work experience:
{{- range .Work}}
- {{.Position}}{{if .Name}} at {{.Name}}{{end}}{{if .StartDate}} ({{.StartDate}} - {{if .EndDate}}{{.EndDate}}{{else}}Present{{end}}){{end}}
{{- if .Summary}}
  {{.Summary}}
{{- end}}
{{- range .Highlights}}
  * {{.}}
{{- end}}
{{- end}}
{{- end}}
{{- if .Education}}

Education:
{{- range .Education}}
- {{.Institution}}{{if .Area}}, {{.Area}}{{end}}{{if .StudyType}} ({{.StudyType}}){{end}}{{if .StartDate}} {{.StartDate}} - {{if .EndDate}}{{.EndDate}}{{else}}Present{{end}}{{end}}{{if .Score}}, GPA {{.Score}}{{end}}
{{- end}}
{{- end}}
{{- if .Skills}}

Skills:
{{- range .Skills}}
- {{.Name}}{{if .Level}} ({{.Level}}){{end}}{{if .Keywords}}: {{join .Keywords ", "}}{{end}}
{{- end}}
{{- end}}
{{- if .Languages}}

Languages:
{{- range .Languages}}
- {{.Language}}{{if .Fluency}}: {{.Fluency}}{{end}}
{{- end}}
{{- end}}
{{- if .Certs}}

Certificates:
{{- range .Certs}}
- {{.Name}}{{if .Issuer}} ({{.Issuer}}){{end}}{{if .Date}}, {{.Date}}{{end}}
{{- end}}
{{- end}}
{{- if .Awards}}

Awards:
{{- range .Awards}}
- {{.Title}}{{if .Awarder}}, {{.Awarder}}{{end}}{{if .Date}} ({{.Date}}){{end}}
{{- end}}
{{- end}}
{{- if .Pubs}}

Publications:
{{- range .Pubs}}
- {{.Name}}{{if .Publisher}}, {{.Publisher}}{{end}}{{if .ReleaseDate}} ({{.ReleaseDate}}){{end}}
{{- end}}
{{- end}}
{{- if .Projects}}

Projects:
{{- range .Projects}}
- {{.Name}}{{if .Description}}: {{.Description}}{{end}}
{{- range .Highlights}}
  * {{.}}
{{- end}}
{{- end}}
{{- end}}
{{- if .Volunteer}}

Volunteer experience:
{{- range .Volunteer}}
- {{.Position}}{{if .Organization}} at {{.Organization}}{{end}}{{if .Summary}}: {{.Summary}}{{end}}
{{- end}}
{{- end}}
`

var renderTmpl = template.Must(template.New("resume").Funcs(template.FuncMap{
	"join": strings.Join,
	"compact": func(parts ...string) []string {
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	},
}).Parse(resumeTemplate))

// Render returns the plain-text representation of a resume.
func Render(r *JSONResume) (string, error) {
	var sb strings.Builder
	if err := renderTmpl.Execute(&sb, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}
