// Package interactive drives the guided spec authoring mode: a series
// of terminal prompts that build one entry point from user answers.
package interactive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"argspecgen/internal/spec"
	"argspecgen/internal/types"
)

// ErrCancelled is returned when the user aborts a prompt session.
var ErrCancelled = errors.New("prompt cancelled")

// Question is one prompt in a batch.
type Question struct {
	Key     string
	Prompt  string
	Default string
}

// promptModel is a bubbletea model that asks one question at a time.
type promptModel struct {
	questions []Question
	idx       int
	inputs    []textinput.Model
	done      bool
}

func newPromptModel(questions []Question) promptModel {
	inputs := make([]textinput.Model, len(questions))
	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = q.Default
		ti.CharLimit = 512
		inputs[i] = ti
	}
	m := promptModel{
		questions: questions,
		inputs:    inputs,
	}
	if len(inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.idx < len(m.inputs)-1 {
				m.inputs[m.idx].Blur()
				m.idx++
				m.inputs[m.idx].Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.idx]
	return fmt.Sprintf("%s: %s\n", q.Prompt, m.inputs[m.idx].View())
}

// Ask runs one prompt batch and returns answers keyed by Question.Key.
// Empty answers fall back to the question's default.
func Ask(questions []Question) (map[string]string, error) {
	if len(questions) == 0 {
		return map[string]string{}, nil
	}
	m := newPromptModel(questions)
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(promptModel)
	if !ok || !final.done {
		return nil, ErrCancelled
	}
	answers := make(map[string]string, len(questions))
	for i, q := range questions {
		answer := strings.TrimSpace(final.inputs[i].Value())
		if answer == "" {
			answer = q.Default
		}
		answers[q.Key] = answer
	}
	return answers, nil
}

// Run walks the user through building one entry point: header fields
// first, then an argument loop that repeats until the user stops adding
// options.
func Run(roleName string) (*spec.EntryPoint, error) {
	header, err := Ask([]Question{
		{Key: "entry", Prompt: "Entry point name", Default: "main"},
		{Key: "short", Prompt: "Short description", Default: fmt.Sprintf("Auto-generated specs for %s role - main entry point", roleName)},
		{Key: "description", Prompt: "Description", Default: ""},
		{Key: "author", Prompt: "Author", Default: ""},
	})
	if err != nil {
		return nil, err
	}

	ep := spec.NewEntryPoint(header["entry"])
	ep.ShortDescription = header["short"]
	if header["description"] != "" {
		ep.Description = []string{header["description"]}
	}
	if header["author"] != "" {
		ep.Author = []string{header["author"]}
	}

	for {
		answers, err := Ask([]Question{
			{Key: "name", Prompt: "Option name (blank to finish)", Default: ""},
		})
		if err != nil {
			return nil, err
		}
		name := answers["name"]
		if name == "" {
			break
		}

		arg, err := askArgument(name)
		if err != nil {
			return nil, err
		}
		ep.Options[name] = arg
	}

	if len(ep.Options) > 1 {
		if err := askConditionGroups(ep); err != nil {
			return nil, err
		}
	}

	return ep, nil
}

// askConditionGroups collects the cross-option requirement groups.
// Each answer is a comma separated list of option names; blank skips
// the group.
func askConditionGroups(ep *spec.EntryPoint) error {
	answers, err := Ask([]Question{
		{Key: "together", Prompt: "Options required together (comma separated, blank to skip)", Default: ""},
		{Key: "exclusive", Prompt: "Mutually exclusive options (comma separated, blank to skip)", Default: ""},
		{Key: "one_of", Prompt: "At least one of (comma separated, blank to skip)", Default: ""},
	})
	if err != nil {
		return err
	}

	if group := splitNames(answers["together"], ep); len(group) > 1 {
		ep.RequiredTogether = append(ep.RequiredTogether, group)
	}
	if group := splitNames(answers["exclusive"], ep); len(group) > 1 {
		ep.MutuallyExclusive = append(ep.MutuallyExclusive, group)
	}
	if group := splitNames(answers["one_of"], ep); len(group) > 0 {
		ep.RequiredOneOf = append(ep.RequiredOneOf, group)
	}
	return nil
}

// splitNames keeps only names that refer to declared options, so the
// result always passes validation.
func splitNames(answer string, ep *spec.EntryPoint) []string {
	if answer == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(answer, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := ep.Options[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

func askArgument(name string) (*spec.Argument, error) {
	answers, err := Ask([]Question{
		{Key: "type", Prompt: fmt.Sprintf("Type for %s (%s)", name, strings.Join(types.All, "/")), Default: types.Str},
		{Key: "required", Prompt: "Required (y/n)", Default: "n"},
		{Key: "default", Prompt: "Default value (blank for none)", Default: ""},
		{Key: "description", Prompt: "Description", Default: ""},
		{Key: "choices", Prompt: "Choices (comma separated, blank for none)", Default: ""},
	})
	if err != nil {
		return nil, err
	}

	arg := &spec.Argument{Name: name, Type: types.Str}
	if types.IsValid(answers["type"]) {
		arg.Type = answers["type"]
	}
	arg.Required = strings.EqualFold(answers["required"], "y") || strings.EqualFold(answers["required"], "yes")
	if answers["default"] != "" {
		arg.Default = coerceValue(answers["default"], arg.Type)
		arg.Required = false
	}
	if answers["description"] != "" {
		arg.Description = answers["description"]
	} else {
		arg.Description = "Configuration for " + name
	}
	if answers["choices"] != "" {
		for _, choice := range strings.Split(answers["choices"], ",") {
			if c := strings.TrimSpace(choice); c != "" {
				arg.Choices = append(arg.Choices, coerceValue(c, arg.Type))
			}
		}
	}
	if arg.Type == types.List {
		arg.Elements = types.Str
	}
	return arg, nil
}

// coerceValue converts a typed answer string into the matching Go
// value so the rendered default is not always quoted.
func coerceValue(answer, argType string) any {
	switch argType {
	case types.Int:
		if n, err := strconv.Atoi(answer); err == nil {
			return n
		}
	case types.Float:
		if f, err := strconv.ParseFloat(answer, 64); err == nil {
			return f
		}
	case types.Bool:
		if b, err := strconv.ParseBool(answer); err == nil {
			return b
		}
	case types.List:
		var items []any
		for _, item := range strings.Split(answer, ",") {
			if s := strings.TrimSpace(item); s != "" {
				items = append(items, s)
			}
		}
		return items
	}
	return answer
}
