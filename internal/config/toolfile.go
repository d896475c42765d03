package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
)

// ErrNoToolOptions is returned when a tool-options file has no
// [tools.commitcheck] table.
var ErrNoToolOptions = errors.New("no [tools.commitcheck] table")

// toolFile mirrors the layout of a tool-options file. Tables for other tools
// are ignored.
type toolFile struct {
	Tools struct {
		CommitCheck *toolOptions `toml:"commitcheck"`
	} `toml:"tools"`
}

type toolOptions struct {
	Pattern  string `toml:"pattern"`
	CheckURL string `toml:"check_url"`
	Message  string `toml:"message"`
}

// LoadToolOptions reads the [tools.commitcheck] table of a TOML file:
//
//	[tools.commitcheck]
//	pattern = '(?P<key>OPS-\d+)'
//	check_url = 'https://tracker.example.com/browse/{key}'
//	message = 'Commits must reference a ticket.'
func LoadToolOptions(path string) (model.CheckConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CheckConfig{}, fmt.Errorf("read tool options: %w", err)
	}

	return ParseToolOptions(data)
}

// ParseToolOptions decodes tool options from TOML content.
func ParseToolOptions(data []byte) (model.CheckConfig, error) {
	var f toolFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return model.CheckConfig{}, fmt.Errorf("parse tool options: %w", err)
	}

	opts := f.Tools.CommitCheck
	if opts == nil {
		return model.CheckConfig{}, ErrNoToolOptions
	}

	return model.CheckConfig{
		Pattern:  opts.Pattern,
		CheckURL: opts.CheckURL,
		Message:  opts.Message,
	}, nil
}
