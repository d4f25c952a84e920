package component

import (
	"fmt"
	"strings"
)

// Resource is one file shipped with the component. The first resource is
// the main script or binary the generated wrapper invokes.
type Resource struct {
	Path       string
	Text       string // inline content; mutually exclusive with Path
	Executable bool
}

// Requirements declares default runtime resource grants. Memory accepts a
// byte size with a B/KB/MB/GB/TB/PB suffix.
type Requirements struct {
	NProc  int    `yaml:"n_proc"`
	Memory string `yaml:"memory"`
}

// SetupRequirement is one extra provisioning step layered on top of the
// base image, lowered to a single RUN line in the synthesized dockerfile.
type SetupRequirement struct {
	Type     string   // apt, apk, yum, pip, r, run
	Packages []string `yaml:"packages"`
	Command  string   // raw command, type "run" only
}

// Engine configures the container environment layer. A nil Engine means the
// component runs natively.
type Engine struct {
	Image          string
	Setup          []SetupRequirement
	TargetRegistry string            `yaml:"target_registry"`
	TargetOrg      string            `yaml:"target_org"`
	TargetTag      string            `yaml:"target_tag"`
	BuildArgs      map[string]string `yaml:"build_args"`
	// Ignore holds glob patterns for resources excluded from the image
	// build context.
	Ignore []string
}

// Component is one described unit of work: a script plus its typed argument
// list and metadata. It is immutable once loaded and validated.
type Component struct {
	Name        string
	Namespace   string
	Version     string
	Description string
	Arguments   []Argument
	Resources   []Resource
	Require     Requirements `yaml:"requirements"`
	Engine      *Engine

	// Dir is the directory the description was loaded from. Relative
	// resource paths resolve against it. Not part of the yaml model.
	Dir string `yaml:"-"`
}

// MainResource returns the resource the wrapper invokes.
func (c *Component) MainResource() (Resource, error) {
	if len(c.Resources) == 0 {
		return Resource{}, fmt.Errorf("component %s has no resources", c.Name)
	}
	return c.Resources[0], nil
}

// Validate checks the whole model for consistency. Any error is a
// configuration error: generation must abort before writing an artifact.
func (c *Component) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("component has no name")
	}
	seen := map[string]string{}
	lastPositional := -1
	multiPositional := -1
	for i := range c.Arguments {
		arg := &c.Arguments[i]
		if err := arg.validate(); err != nil {
			return err
		}
		v := arg.VarName()
		if prev, ok := seen[v]; ok {
			return fmt.Errorf("arguments %s and %s both store into %s", prev, arg.Name, v)
		}
		seen[v] = arg.Name
		if reservedMetaVar(arg.PlainName()) {
			return fmt.Errorf("argument %s collides with the reserved metadata namespace", arg.Name)
		}
		for _, form := range arg.FlagForms() {
			if form.Flag == "-h" || form.Flag == "--help" {
				return fmt.Errorf("argument %s: %s is reserved for the help flag", arg.Name, form.Flag)
			}
		}
		if arg.Kind() == KindPositional {
			lastPositional = i
			if arg.Multiple {
				if multiPositional >= 0 {
					return fmt.Errorf("arguments %s and %s: only one positional argument may accept multiple values",
						c.Arguments[multiPositional].Name, arg.Name)
				}
				multiPositional = i
			}
		}
	}
	if multiPositional >= 0 && multiPositional != lastPositional {
		return fmt.Errorf("argument %s: a positional argument with multiple values must be the last positional argument",
			c.Arguments[multiPositional].Name)
	}
	if c.Engine != nil && c.Engine.Image == "" {
		return fmt.Errorf("component %s: container engine declared without an image", c.Name)
	}
	return nil
}

func reservedMetaVar(plain string) bool {
	upper := strings.ToUpper(plain)
	for _, f := range MetaFields {
		if upper == f {
			return true
		}
	}
	return false
}

// Argument looks up an argument by any of its accepted flag spellings.
func (c *Component) Argument(flag string) (*Argument, bool) {
	for i := range c.Arguments {
		for _, form := range c.Arguments[i].FlagForms() {
			if form.Flag == flag {
				return &c.Arguments[i], true
			}
		}
	}
	return nil, false
}
