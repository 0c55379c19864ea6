package assessment

import (
	"math"
	"regexp"
	"strings"

	"skill-assess/internal/domain/skill"

	"github.com/tidwall/gjson"
)

var (
	fencedBlockRe   = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	numberedLineRe  = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
)

var requiredKeys = []string{"overallScore", "generalAssessment", "recommendations"}

// Extract turns raw oracle text into an analysis. It never fails: anything
// that cannot be parsed or validated yields the default analysis built from
// the candidate's current skills.
func Extract(raw string, current []skill.Skill) Result {
	doc, err := ExtractJSON(raw)
	if err != nil {
		reason := ReasonMalformed
		if strings.TrimSpace(raw) == "" {
			reason = ReasonEmpty
		}
		return Degraded(DefaultAnalysis(current), reason, err)
	}

	root := gjson.Parse(doc)
	if err := validate(root); err != nil {
		return Degraded(DefaultAnalysis(current), ReasonValidation, err)
	}

	return Parsed(decodeAnalysis(root))
}

// ExtractJSON returns the JSON document found in raw, repairing it once if
// needed. The object span wins unless a parseable array span encloses it, so
// bracketed prose ahead of an object does not hide the object.
func ExtractJSON(raw string) (string, error) {
	text := raw
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		text = m[1]
	}
	text = strings.TrimSpace(stripInvisible(text))
	if text == "" {
		return "", &MalformedError{Stage: StageEmpty}
	}

	obj, objOK := parseSpan(text, '{', '}')
	arr, arrOK := parseSpan(text, '[', ']')
	switch {
	case objOK && arrOK:
		if arr.start < obj.start && arr.end > obj.end {
			return arr.doc, nil
		}
		return obj.doc, nil
	case objOK:
		return obj.doc, nil
	case arrOK:
		return arr.doc, nil
	}

	if doc, ok := parseable(text); ok {
		return doc, nil
	}
	return "", &MalformedError{Stage: StageRepair, Snippet: snippet(text, 80)}
}

// ExtractQuestions is used by question generation flows. It accepts a JSON
// array (of strings or of objects with a "question" field), an object with a
// "questions" array, or a plain numbered list.
func ExtractQuestions(raw string) ([]string, error) {
	if doc, err := ExtractJSON(raw); err == nil {
		if qs := questionList(gjson.Parse(doc)); len(qs) > 0 {
			return qs, nil
		}
	}

	if qs := splitNumbered(stripInvisible(raw)); len(qs) > 0 {
		return qs, nil
	}

	if strings.TrimSpace(raw) == "" {
		return nil, &MalformedError{Stage: StageEmpty}
	}
	return nil, &MalformedError{Stage: StageParse, Snippet: snippet(raw, 80)}
}

type jsonSpan struct {
	doc        string
	start, end int
}

// parseSpan cuts s from the first open to the last close delimiter and
// reports whether that span parses, possibly after repair.
func parseSpan(s string, lo, hi byte) (jsonSpan, bool) {
	start := strings.IndexByte(s, lo)
	end := strings.LastIndexByte(s, hi)
	if start < 0 || end <= start {
		return jsonSpan{}, false
	}
	doc, ok := parseable(s[start : end+1])
	return jsonSpan{doc: doc, start: start, end: end}, ok
}

func parseable(s string) (string, bool) {
	if gjson.Valid(s) {
		return s, true
	}
	if repaired := repair(s); gjson.Valid(repaired) {
		return repaired, true
	}
	return "", false
}

func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		}
		return r
	}, s)
}

func repair(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "'", `"`)
	s = strings.ReplaceAll(s, "\n", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func validate(root gjson.Result) error {
	if !root.IsObject() {
		return &ValidationError{Missing: append([]string{"skillAnalysis"}, requiredKeys...)}
	}

	var missing []string
	if !root.Get("skillAnalysis").IsArray() {
		missing = append(missing, "skillAnalysis")
	}
	for _, k := range requiredKeys {
		if !field(root, k).Exists() {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// field resolves a key, falling back to the spellings older prompts produced.
func field(obj gjson.Result, key string, aliases ...string) gjson.Result {
	if v := obj.Get(key); v.Exists() {
		return v
	}
	if key == "generalAssessment" {
		aliases = append(aliases, "generalAssassment")
	}
	for _, a := range aliases {
		if v := obj.Get(a); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func decodeAnalysis(root gjson.Result) Analysis {
	a := Analysis{
		OverallScore:      clampScore(field(root, "overallScore").Float()),
		TechnicalLevel:    strings.TrimSpace(field(root, "technicalLevel").String()),
		GeneralAssessment: strings.TrimSpace(field(root, "generalAssessment").String()),
		Recommendations:   stringList(field(root, "recommendations")),
		NextSteps:         stringList(field(root, "nextSteps")),
		SkillAnalysis:     make([]SkillAnalysis, 0),
	}

	root.Get("skillAnalysis").ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		sa := SkillAnalysis{
			SkillName:               strings.TrimSpace(field(v, "skillName", "name", "skill").String()),
			RequiredLevel:           level(field(v, "requiredLevel")),
			CurrentProficiency:      level(field(v, "currentProficiency", "currentLevel")),
			DemonstratedProficiency: level(field(v, "demonstratedProficiency", "demonstratedLevel", "demonstratedExperienceLevel")),
			ConfidenceScore:         clampScore(field(v, "confidenceScore", "confidence").Float()),
			Strengths:               stringList(field(v, "strengths")),
			Weaknesses:              stringList(field(v, "weaknesses")),
			Match:                   strings.TrimSpace(field(v, "match").String()),
			LevelGap:                int(math.Round(field(v, "levelGap").Float())),
		}
		if sa.SkillName == "" {
			return true
		}
		a.SkillAnalysis = append(a.SkillAnalysis, sa)
		return true
	})

	if jm := field(root, "jobMatch"); jm.IsObject() {
		a.JobMatch = &JobMatch{
			Percentage: clampScore(jm.Get("percentage").Float()),
			Status:     strings.TrimSpace(jm.Get("status").String()),
			KeyGaps:    stringList(jm.Get("keyGaps")),
		}
	}

	return a
}

func questionList(root gjson.Result) []string {
	if root.IsObject() {
		root = field(root, "questions")
	}
	if !root.IsArray() {
		return nil
	}

	out := make([]string, 0)
	root.ForEach(func(_, v gjson.Result) bool {
		var q string
		if v.IsObject() {
			q = field(v, "question", "text").String()
		} else {
			q = v.String()
		}
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
		return true
	})
	return out
}

func splitNumbered(raw string) []string {
	idx := numberedLineRe.FindAllStringIndex(raw, -1)
	if len(idx) == 0 {
		return nil
	}

	out := make([]string, 0, len(idx))
	for i, loc := range idx {
		end := len(raw)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		item := strings.TrimSpace(whitespaceRe.ReplaceAllString(raw[loc[1]:end], " "))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func stringList(v gjson.Result) []string {
	if !v.Exists() {
		return nil
	}
	if !v.IsArray() {
		s := strings.TrimSpace(v.String())
		if s == "" {
			return nil
		}
		return []string{s}
	}
	out := make([]string, 0)
	v.ForEach(func(_, item gjson.Result) bool {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}

func level(v gjson.Result) int {
	if !v.Exists() {
		return 0
	}
	n := int(math.Round(v.Float()))
	if n < 0 {
		return 0
	}
	if n > skill.MaxLevel {
		return skill.MaxLevel
	}
	return n
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func snippet(s string, limit int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
