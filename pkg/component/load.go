package component

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/drone/envsubst"
	"gopkg.in/yaml.v3"
)

// FromFile loads and validates a component description.
func FromFile(path string) (*Component, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Dir = filepath.Dir(path)
	return c, nil
}

// Parse unmarshals a component description and validates it. Environment
// variable references (${VAR}) are substituted in the engine image, target
// overrides and build args; resource text is left untouched so inline
// scripts keep their dollar signs.
func Parse(b []byte) (*Component, error) {
	c := &Component{}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if c.Engine != nil {
		img, err := envsubst.EvalEnv(c.Engine.Image)
		if err != nil {
			return nil, err
		}
		c.Engine.Image = img
		reg, err := envsubst.EvalEnv(c.Engine.TargetRegistry)
		if err != nil {
			return nil, err
		}
		c.Engine.TargetRegistry = reg
		for k, v := range c.Engine.BuildArgs {
			v, err := envsubst.EvalEnv(v)
			if err != nil {
				return nil, err
			}
			c.Engine.BuildArgs[k] = v
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// stringList accepts either a single scalar or a sequence of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = stringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = stringList(ss)
		return nil
	default:
		return fmt.Errorf("expected scalar or sequence, got yaml kind %d", value.Kind)
	}
}

type rawArgument struct {
	Name         string
	Alternatives stringList
	Description  string
	Example      string
	Type         string
	Direction    string
	Required     bool
	Multiple     bool
	MultipleSep  string `yaml:"multiple_sep"`
	Default      stringList
	Choices      stringList
	Min          *float64
	Max          *float64
}

// UnmarshalYAML maps the yaml spelling of types and directions onto the
// closed enums.
func (a *Argument) UnmarshalYAML(value *yaml.Node) error {
	raw := rawArgument{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Type == "" {
		raw.Type = "string"
	}
	t, err := ParseType(raw.Type)
	if err != nil {
		return fmt.Errorf("argument %s: %w", raw.Name, err)
	}
	d, err := ParseDirection(raw.Direction)
	if err != nil {
		return fmt.Errorf("argument %s: %w", raw.Name, err)
	}
	*a = Argument{
		Name:         raw.Name,
		Alternatives: raw.Alternatives,
		Description:  raw.Description,
		Example:      raw.Example,
		Type:         t,
		Direction:    d,
		Required:     raw.Required,
		Multiple:     raw.Multiple,
		MultipleSep:  raw.MultipleSep,
		Default:      raw.Default,
		Choices:      raw.Choices,
		Min:          raw.Min,
		Max:          raw.Max,
	}
	return nil
}
