// Package bank loads question banks from YAML or JSON files.
package bank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/morokoshi/quizlet/internal/quiz"
)

// SupportedMajor is the bank format major version this build reads.
const SupportedMajor = "v1"

var (
	// ErrInvalidBank wraps schema and content errors.
	ErrInvalidBank = errors.New("invalid question bank")

	// ErrUnsupportedVersion is returned for banks from another major version.
	ErrUnsupportedVersion = errors.New("unsupported question bank version")
)

//go:embed default.yaml
var defaultBank []byte

// Format is the encoding of a bank file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks JSON for .json files and YAML otherwise.
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// File is the on-disk bank document.
type File struct {
	Version  string        `yaml:"version" json:"version"`
	Title    string        `yaml:"title,omitempty" json:"title,omitempty"`
	Sections []SectionFile `yaml:"sections" json:"sections"`
}

// SectionFile is one section entry of a bank document.
type SectionFile struct {
	Title     string         `yaml:"title,omitempty" json:"title,omitempty"`
	Questions []QuestionFile `yaml:"questions" json:"questions"`
}

// QuestionFile is one question entry of a bank document.
type QuestionFile struct {
	Text    string   `yaml:"text" json:"text"`
	Choices []string `yaml:"choices,omitempty" json:"choices,omitempty"`
	Answer  string   `yaml:"answer" json:"answer"`
}

// Bank is a validated, normalized set of sections.
type Bank struct {
	// ID is set for banks loaded from the catalog; uuid.Nil for files.
	ID       uuid.UUID
	Title    string
	Version  string
	Sections []quiz.Section
}

// Load reads and parses the bank at path.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Default returns the built-in bank.
func Default() *Bank {
	b, err := Parse(defaultBank, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in question bank: %v", err))
	}
	return b
}

// Parse validates data against the bank schema and builds a Bank.
func Parse(data []byte, format Format) (*Bank, error) {
	f, err := ParseFile(data, format)
	if err != nil {
		return nil, err
	}
	return FromFile(f)
}

// ParseFile validates data and decodes it without normalizing.
func ParseFile(data []byte, format Format) (File, error) {
	doc, err := decodeDocument(data, format)
	if err != nil {
		return File{}, err
	}
	if err := validateDocument(doc); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}

	var f File
	switch format {
	case FormatJSON:
		err = decodeJSON(data, &f)
	default:
		err = decodeYAML(data, &f)
	}
	if err != nil {
		return File{}, err
	}
	return f, nil
}

// FromFile checks the version, normalizes content, and builds sections.
func FromFile(f File) (*Bank, error) {
	if !semver.IsValid(f.Version) {
		return nil, fmt.Errorf("%w: version %q is not semver", ErrInvalidBank, f.Version)
	}
	if semver.Major(f.Version) != SupportedMajor {
		return nil, fmt.Errorf("%w: %s (want %s.x)", ErrUnsupportedVersion, f.Version, SupportedMajor)
	}

	b := &Bank{
		Title:   strings.TrimSpace(f.Title),
		Version: semver.Canonical(f.Version),
	}
	for i, sf := range f.Sections {
		sec, err := buildSection(i, sf)
		if err != nil {
			return nil, err
		}
		b.Sections = append(b.Sections, sec)
	}
	if len(b.Sections) == 0 {
		return nil, fmt.Errorf("%w: no sections", ErrInvalidBank)
	}
	return b, nil
}

// ToFile converts a bank back to its document form.
func (b *Bank) ToFile() File {
	f := File{Version: b.Version, Title: b.Title}
	for _, s := range b.Sections {
		sf := SectionFile{Title: s.Title}
		for _, q := range s.Questions {
			sf.Questions = append(sf.Questions, QuestionFile{
				Text:    q.Text,
				Choices: q.Choices,
				Answer:  q.CorrectAnswer,
			})
		}
		f.Sections = append(f.Sections, sf)
	}
	return f
}

// QuestionCount returns the number of questions across all sections.
func (b *Bank) QuestionCount() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Questions)
	}
	return n
}

func buildSection(idx int, sf SectionFile) (quiz.Section, error) {
	title := strings.TrimSpace(sf.Title)
	if title == "" {
		title = fmt.Sprintf("Section %d", idx+1)
	}
	if len(sf.Questions) == 0 {
		return quiz.Section{}, fmt.Errorf("%w: section %d has no questions", ErrInvalidBank, idx+1)
	}

	qs := make([]quiz.Question, 0, len(sf.Questions))
	for j, qf := range sf.Questions {
		q, err := buildQuestion(qf)
		if err != nil {
			return quiz.Section{}, fmt.Errorf("%w: section %d question %d: %v", ErrInvalidBank, idx+1, j+1, err)
		}
		qs = append(qs, q)
	}
	return quiz.NewSection(title, qs), nil
}

func buildQuestion(qf QuestionFile) (quiz.Question, error) {
	text := strings.TrimSpace(qf.Text)
	answer := strings.TrimSpace(qf.Answer)
	if text == "" {
		return quiz.Question{}, errors.New("empty text")
	}
	if answer == "" {
		return quiz.Question{}, errors.New("empty answer")
	}

	var choices []string
	found := false
	for _, c := range qf.Choices {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if strings.EqualFold(c, answer) {
			found = true
		}
		choices = append(choices, c)
	}
	if len(choices) > 0 && !found {
		return quiz.Question{}, fmt.Errorf("answer %q is not among the choices", answer)
	}
	return quiz.NewQuestion(text, choices, answer), nil
}

func decodeJSON(data []byte, f *File) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(f); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse json: multiple documents are not supported")
		}
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

func decodeYAML(data []byte, f *File) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(f); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}
