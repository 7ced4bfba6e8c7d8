package flavor

import (
	"strings"
	"text/template"
)

type TipContext struct {
	Name     string
	Breed    string
	Language string
}

type ReactionContext struct {
	Name      string
	Breed     string
	Activity  string
	Happiness int
	Language  string
}

type HistoryStats struct {
	DaysTracked      int
	AverageHappiness int
	MostCompleted    string
	LeastCompleted   string
}

type ReportEntry struct {
	Time   string
	Label  string
	Points int
}

type ReportContext struct {
	Name      string
	Breed     string
	Happiness int
	Points    int
	Streak    int
	Completed []string
	Pending   []string
	History   []ReportEntry
	Notes     string
	Stats     *HistoryStats
	Language  string
}

type PhotoContext struct {
	Name     string
	Breed    string
	Language string
}

type PortraitContext struct {
	Name  string
	Breed string
	Mood  string
}

var prompts = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`
{{define "tip"}}Give one quick, useful care tip for a dog with these details:
- Name: {{.Name}}
- Breed: {{.Breed}}

Make the tip specific to the breed. Answer in one or two short, practical sentences.
Answer only in {{.Language}}.{{end}}

{{define "reaction"}}You are a dog named {{.Name}}, a {{.Breed}}.
Your owner just finished: "{{.Activity}}".
Your happiness right now is {{.Happiness}}%.

Reply in the first person as the dog, in one or two short, sweet sentences reacting to what your owner did.
Keep the language simple and affectionate. No hashtags. Answer only in {{.Language}}.{{end}}

{{define "report"}}You are a caring virtual vet assistant reviewing a pet's day.

Pet details:
- Name: {{.Name}}
- Breed: {{.Breed}}
- Happiness: {{.Happiness}}%
- Total points: {{.Points}}
- Consecutive days of full care: {{.Streak}}

Tasks completed today: {{if .Completed}}{{join .Completed ", "}}{{else}}none yet{{end}}
Tasks still pending: {{if .Pending}}{{join .Pending ", "}}{{else}}all tasks are done!{{end}}
{{- if .History}}

Activity log:
{{- range .History}}
- {{.Time}}: {{.Label}} (+{{.Points}} pts)
{{- end}}
{{- end}}
{{- if .Notes}}

Owner's notes: {{.Notes}}
{{- end}}
{{- with .Stats}}

History:
- Days tracked: {{.DaysTracked}}
- Average happiness: {{.AverageHappiness}}%
- Most completed task: {{.MostCompleted}}
- Least completed task: {{.LeastCompleted}}
{{- end}}

Write a warm, complete review of {{.Name}}'s day in {{.Language}}, formatted as Markdown with headings. Include:
1. How the day went, based on the tasks and activities
2. Two or three specific insights about routine and wellbeing
3. Two or three practical recommendations for the owner, keeping in mind that {{.Name}} is a {{.Breed}}
4. An overall wellbeing score from 0 to 100

Be specific and ground every point in the data above.{{end}}

{{define "photo"}}The owner of {{.Name}}, a {{.Breed}}, just shared a new photo of their dog.
Write one short, warm compliment about {{.Name}} that fits the breed, in a single sentence.
Answer only in {{.Language}}.{{end}}

{{define "portrait"}}A cute, friendly cartoon portrait of a {{.Breed}} dog named {{.Name}}, looking {{.Mood}}.
Soft colors, clean background, high quality illustration.{{end}}
`))

const DefaultLanguage = "English"

func render(name string, data any) string {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		panic(err)
	}
	return strings.TrimSpace(b.String())
}

func language(l string) string {
	if strings.TrimSpace(l) == "" {
		return DefaultLanguage
	}
	return l
}

func TipPrompt(c TipContext) string {
	c.Language = language(c.Language)
	return render("tip", c)
}

func ReactionPrompt(c ReactionContext) string {
	c.Language = language(c.Language)
	return render("reaction", c)
}

func ReportPrompt(c ReportContext) string {
	c.Language = language(c.Language)
	return render("report", c)
}

func PhotoPrompt(c PhotoContext) string {
	c.Language = language(c.Language)
	return render("photo", c)
}

func PortraitPrompt(c PortraitContext) string { return render("portrait", c) }
