// Package persona generates the honeypot's replies. The persona is a
// retired government employee who never refuses, never completes a payment,
// and asks every caller for identifying details. Selection walks
// scam type, message content, conversation phase and detected language
// before picking an unrepeated template.
package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	_ "embed"
)

//go:embed templates.yaml
var builtinTemplates []byte

// Phase names the conversation stage a template pool targets.
const (
	PhaseEarly  = "early"
	PhaseMiddle = "middle"
	PhaseLate   = "late"
)

const (
	LangEnglish  = "english"
	LangHinglish = "hinglish"
)

// templateCorpus mirrors the YAML layout: language -> category -> phase.
type templateCorpus map[string]map[string]map[string][]string

// Templates holds the loaded reply pools for both languages.
type Templates struct {
	corpus templateCorpus
}

// LoadTemplates reads a template corpus from path, or the built-in corpus
// when path is empty. A file that exists but fails to parse is an error
// rather than a silent fallback: an operator who pointed at a corpus wants
// that corpus.
func LoadTemplates(path string) (*Templates, error) {
	data := builtinTemplates
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template corpus: %w", err)
		}
		data = fileData
	}

	var corpus templateCorpus
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parse template corpus: %w", err)
	}
	if len(corpus[LangEnglish]) == 0 {
		return nil, fmt.Errorf("template corpus has no english pools")
	}
	return &Templates{corpus: corpus}, nil
}

// MustLoadBuiltin loads the embedded corpus and panics on failure. The
// embedded YAML is validated by tests, so a failure here is a build defect.
func MustLoadBuiltin() *Templates {
	t, err := LoadTemplates("")
	if err != nil {
		panic(err)
	}
	return t
}

// Pool returns the templates for a category, phase and language. When the
// preferred language has no pool for the slot, the other language's pool is
// returned so the persona always has something to say.
func (t *Templates) Pool(category, phase, language string) []string {
	if pool := t.lookup(language, category, phase); len(pool) > 0 {
		return pool
	}
	other := LangEnglish
	if language == LangEnglish {
		other = LangHinglish
	}
	return t.lookup(other, category, phase)
}

func (t *Templates) lookup(language, category, phase string) []string {
	byCategory, ok := t.corpus[language]
	if !ok {
		return nil
	}
	byPhase, ok := byCategory[category]
	if !ok {
		return nil
	}
	return byPhase[phase]
}

// Categories lists every category present for a language.
func (t *Templates) Categories(language string) []string {
	var out []string
	for category := range t.corpus[language] {
		out = append(out, category)
	}
	return out
}
