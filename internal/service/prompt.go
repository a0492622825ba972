package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pageza/pantrychef/internal/observability"
)

// Template markers replaced by PromptBuilder
const (
	IngredientsMarker = "{{INGREDIENTS}}"
	NoFlameMarker     = "{{NO_FLAME_BLOCK}}"
)

// TemplateFileName is looked up next to the running executable
const TemplateFileName = "prompt.txt"

// DefaultTemplate is used whenever prompt.txt is missing, unreadable or blank.
const DefaultTemplate = `You are a professional chef and helpful cooking assistant.
Only generate real food recipes. Do not create metaphorical, abstract, or non-food content.

Create a detailed food recipe using these ingredients: {{INGREDIENTS}}.
{{NO_FLAME_BLOCK}}
Include:
- Recipe name
- A brief description of the dish
- Ingredients list with quantities
- Step-by-step instructions
- Estimated total time
- Serving size

If the ingredients do not seem like food items, respond with:
"⚠️ These ingredients do not seem like typical food items. Please enter real culinary ingredients."
`

// NoFlameBlock is substituted for NoFlameMarker when no-flame mode is on.
const NoFlameBlock = `IMPORTANT: Create ONLY no-flame recipes. Do not use any methods that require ovens, stoves, open flames, grilling, or gas.
Use only raw/cold/no-cook, room-temperature preparations.
`

const chatPromptFormat = `
Based on this recipe:
%s

Please answer this question: %s

Keep your answer helpful, concise, and related to the recipe. If the question is not related to cooking or the recipe, politely redirect to recipe-related topics.
`

// ErrBlankTemplate is reported when the template file holds only whitespace
var ErrBlankTemplate = errors.New("prompt template file is blank")

// TemplateResult is the outcome of reading the template file.
// Text is empty whenever Err is set.
type TemplateResult struct {
	Path string
	Text string
	Err  error
}

// TemplateStore reads the recipe prompt template from disk on every call
type TemplateStore struct {
	path     string
	readFile func(string) ([]byte, error)
}

// NewTemplateStore creates a store for path, or for DefaultTemplatePath when path is empty
func NewTemplateStore(path string) *TemplateStore {
	if path == "" {
		path = DefaultTemplatePath()
	}
	return &TemplateStore{path: path, readFile: os.ReadFile}
}

// DefaultTemplatePath returns prompt.txt in the executable's directory
func DefaultTemplatePath() string {
	exe, err := os.Executable()
	if err != nil {
		return TemplateFileName
	}
	return filepath.Join(filepath.Dir(exe), TemplateFileName)
}

// Path returns the file the store reads
func (s *TemplateStore) Path() string {
	return s.path
}

// Read reads the template file, trimmed of surrounding whitespace, without
// applying any fallback
func (s *TemplateStore) Read() TemplateResult {
	data, err := s.readFile(s.path)
	if err != nil {
		return TemplateResult{Path: s.path, Err: fmt.Errorf("failed to read prompt template: %w", err)}
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return TemplateResult{Path: s.path, Err: ErrBlankTemplate}
	}
	return TemplateResult{Path: s.path, Text: text}
}

// Load returns the file template, or DefaultTemplate if it cannot be used
func (s *TemplateStore) Load() string {
	res := s.Read()
	if res.Err != nil {
		observability.Logger().Debug("using default prompt template", "path", res.Path, "reason", res.Err.Error())
		return DefaultTemplate
	}
	observability.Logger().Debug("using prompt template file", "path", res.Path)
	return res.Text
}

// TemplateLoader supplies the current recipe prompt template
type TemplateLoader interface {
	Load() string
}

// PromptBuilder turns user input into the text sent to the generator
type PromptBuilder struct {
	templates TemplateLoader
}

// NewPromptBuilder creates a builder that loads its template from templates
func NewPromptBuilder(templates TemplateLoader) *PromptBuilder {
	return &PromptBuilder{templates: templates}
}

// Build fills the template with ingredients and, when noFlame is set, the
// no-flame instructions. Replacement text is never rescanned for markers.
func (b *PromptBuilder) Build(ingredients string, noFlame bool) string {
	block := ""
	if noFlame {
		block = NoFlameBlock
	}
	r := strings.NewReplacer(IngredientsMarker, ingredients, NoFlameMarker, block)
	return r.Replace(b.templates.Load())
}

// ChatPrompt wraps a follow-up question with the recipe it refers to
func ChatPrompt(recipe, question string) string {
	return fmt.Sprintf(chatPromptFormat, recipe, question)
}
