package main

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/stencilset/stencil/pkg/example"
)

// pickExample prompts for an example when the render command gets none. It
// refuses to prompt without a terminal so scripted invocations fail fast
// instead of hanging.
func pickExample(root string) (string, error) {
	if !isTerminal() {
		return "", errors.New("no example given (pass a name, or run interactively)")
	}

	examples, err := example.Discover(root)
	if err != nil {
		return "", err
	}
	if len(examples) == 0 {
		return "", fmt.Errorf("no examples found under %q", root)
	}

	options := make([]string, 0, len(examples))
	byLabel := make(map[string]string, len(examples))
	for _, ex := range examples {
		label := ex.Name
		if desc := ex.Description(); desc != "" {
			label = fmt.Sprintf("%s (%s)", ex.Name, desc)
		}
		options = append(options, label)
		byLabel[label] = ex.Name
	}

	var picked string
	prompt := &survey.Select{
		Message:  "Pick an example to render:",
		Options:  options,
		PageSize: 10,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return "", err
	}
	return byLabel[picked], nil
}
