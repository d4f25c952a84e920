package container

import (
	"fmt"
	"sort"
	"strings"

	"github.com/greatliontech/wrapgen/internal/bash"
	"github.com/greatliontech/wrapgen/internal/generate"
	"github.com/greatliontech/wrapgen/pkg/component"
)

// Engine is the resolved docker layer of one component: the effective
// image identity plus the synthesized recipe, if any.
type Engine struct {
	comp       *component.Component
	image      ImageID
	ref        string
	dockerfile string
	hasSetup   bool
}

// NewEngine resolves the effective image identity for the component. With
// no setup requirements the declared base image is used verbatim; with
// requirements the identity is synthesized and the recipe rendered.
func NewEngine(comp *component.Component) (*Engine, error) {
	if comp.Engine == nil {
		return nil, fmt.Errorf("component %s declares no container engine", comp.Name)
	}
	df, err := renderDockerfile(comp.Engine)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", comp.Name, err)
	}
	e := &Engine{comp: comp, dockerfile: df, hasSetup: len(comp.Engine.Setup) > 0}
	if e.hasSetup {
		e.image = synthesizeImageID(comp, df)
		e.ref = e.image.Ref()
	} else {
		e.image, err = ParseImageRef(comp.Engine.Image)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", comp.Name, err)
		}
		// The declared reference runs verbatim. The docker daemon lists
		// Hub images under their familiar short name, so a canonicalized
		// reference would never match a locally present image.
		e.ref = comp.Engine.Image
	}
	return e, nil
}

// Image returns the effective image identity, canonicalized for metadata.
func (e *Engine) Image() ImageID { return e.image }

// Ref returns the reference the wrapper pulls, builds and runs: the
// declared base image verbatim, or the synthesized identity when setup
// requirements exist.
func (e *Engine) Ref() string { return e.ref }

// Dockerfile returns the synthesized recipe. For an engine without setup
// requirements this is just the FROM line of the declared base image.
func (e *Engine) Dockerfile() string { return e.dockerfile }

// Executor returns the wrapper's invocation line: a docker run of the main
// resource with every accumulated mount applied and all parsed variables
// forwarded into the container.
func (e *Engine) Executor() (string, error) {
	main, err := e.comp.MainResource()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(`docker run --entrypoint=bash --rm -i "${WRAPGEN_EXTRA_MOUNTS[@]}"`)
	b.WriteString(` -w "$WRAPGEN_META_RESOURCES_DIR"`)
	for _, env := range e.forwardedVars() {
		b.WriteString(" -e " + env)
	}
	fmt.Fprintf(&b, ` "$WRAPGEN_ENGINE_IMAGE" "$WRAPGEN_META_RESOURCES_DIR/%s"`, bash.Escape(main.Path, bash.EscapeOpts{Quote: true, Backtick: true}))
	return b.String(), nil
}

func (e *Engine) forwardedVars() []string {
	vars := make([]string, 0, len(e.comp.Arguments)+len(component.MetaFields))
	for i := range e.comp.Arguments {
		vars = append(vars, e.comp.Arguments[i].VarName())
	}
	for _, f := range component.MetaFields {
		vars = append(vars, component.MetaPrefix+f)
	}
	return vars
}

// Modification assembles the docker layer's contribution to the generated
// wrapper: helper functions and the embedded recipe up front, the hidden
// runtime flags in the parser, and mount translation, setup, debug entry
// and the ownership trap after validation.
func (e *Engine) Modification() generate.Modification {
	return generate.Modification{
		PreParse:  []string{e.preParse()},
		Parsers:   []string{e.parserCases()},
		PostParse: []string{e.postParse()},
	}
}

func (e *Engine) preParse() string {
	var b strings.Builder
	b.WriteString("# container environment\n")
	fmt.Fprintf(&b, "WRAPGEN_ENGINE_IMAGE=\"%s\"\n", bash.Escape(e.ref, bash.EscapeOpts{Quote: true, Backtick: true}))
	b.WriteString("WRAPGEN_EXTRA_MOUNTS=()\n")
	b.WriteString("WRAPGEN_MODE=run\n")
	b.WriteString("\n")
	b.WriteString(e.dockerfileFunc())
	b.WriteString(mountFuncs)
	b.WriteString(e.setupFunc())
	b.WriteString(chownFunc)
	return b.String()
}

// dockerfileFunc embeds the recipe as a quoted heredoc so the wrapper can
// print it without any expansion.
func (e *Engine) dockerfileFunc() string {
	return "WgDockerfile() {\n" +
		"  cat << 'WRAPGENDOCKERFILE'\n" +
		e.dockerfile +
		"WRAPGENDOCKERFILE\n" +
		"}\n\n"
}

const mountFuncs = `WgAbsolutePath() {
  if [[ "$1" =~ ^/ ]]; then
    printf '%s\n' "$1"
  else
    printf '%s\n' "$PWD/$1"
  fi
}
# translate a host path to its in-container automount path
WgAutodetectMount() {
  local abs_path mount_source base_name
  abs_path=$(WgAbsolutePath "$1")
  if [ -d "$abs_path" ]; then
    mount_source="$abs_path"
    base_name=""
  else
    mount_source=$(dirname "$abs_path")
    base_name=$(basename "$abs_path")
  fi
  if [ -z "$base_name" ]; then
    printf '%s\n' "/wg_automount$mount_source"
  else
    printf '%s\n' "/wg_automount$mount_source/$base_name"
  fi
}
# the --volume flag binding a host path to its automount path
WgAutodetectMountArg() {
  local abs_path mount_source
  abs_path=$(WgAbsolutePath "$1")
  if [ ! -d "$abs_path" ]; then
    mount_source=$(dirname "$abs_path")
  else
    mount_source="$abs_path"
  fi
  printf '%s\n' "--volume=$mount_source:/wg_automount$mount_source"
}

`

func (e *Engine) setupFunc() string {
	if !e.hasSetup {
		return `# pull the image only when it is not already present locally
WgDockerSetup() {
  if [ "$1" != "force" ] && [ ! -z "$(docker images -q "$WRAPGEN_ENGINE_IMAGE" 2>/dev/null)" ]; then
    return 0
  fi
  if ! docker pull "$WRAPGEN_ENGINE_IMAGE"; then
    WgError "Could not pull image '$WRAPGEN_ENGINE_IMAGE'. Setup failed."
    exit 1
  fi
}

`
	}
	buildArgs := ""
	if e.comp.Engine != nil {
		for _, k := range sortedKeys(e.comp.Engine.BuildArgs) {
			v := e.comp.Engine.BuildArgs[k]
			buildArgs += fmt.Sprintf(" --build-arg %s=\"%s\"", k, bash.Escape(v, bash.EscapeOpts{Quote: true, Backtick: true}))
		}
	}
	return `# build the synthesized image from the embedded recipe
WgDockerSetup() {
  if [ "$1" != "force" ] && [ ! -z "$(docker images -q "$WRAPGEN_ENGINE_IMAGE" 2>/dev/null)" ]; then
    return 0
  fi
  local build_dir
  build_dir=$(mktemp -d "$WRAPGEN_META_TEMP_DIR/wrapgen_build_XXXXXX")
  WgDockerfile > "$build_dir/Dockerfile"
  cp -r "$WRAPGEN_META_RESOURCES_DIR/." "$build_dir"
  if ! docker build -t "$WRAPGEN_ENGINE_IMAGE"` + buildArgs + ` "$build_dir"; then
    WgError "Could not build image '$WRAPGEN_ENGINE_IMAGE'. Setup failed."
    rm -rf "$build_dir"
    exit 1
  fi
  rm -rf "$build_dir"
}

`
}

const chownFunc = `# restore host ownership of an output path, best effort
WgDockerChown() {
  docker run --entrypoint=bash --rm "${WRAPGEN_EXTRA_MOUNTS[@]}" "$WRAPGEN_ENGINE_IMAGE" \
    -c "chown -R $(id -u):$(id -g) \"\$1\"" wgchown "$1" ||
    WgWarning "Could not restore ownership of '$1'."
}

`

func (e *Engine) parserCases() string {
	return `    ---setup)
      WgDockerSetup force
      exit 0
      ;;
    ---dockerfile)
      WgDockerfile
      exit 0
      ;;
    ---debug)
      WRAPGEN_MODE=debug
      shift 1
      ;;
    ---v|---volume)
      if [ $# -lt 2 ]; then
        WgError "Missing value for argument '---volume'."
        exit 1
      fi
      WRAPGEN_EXTRA_MOUNTS+=("--volume=$2")
      shift 2
      ;;
    ---v=*|---volume=*)
      WRAPGEN_EXTRA_MOUNTS+=("--volume=$(WgRemoveFlags "$1")")
      shift 1
      ;;
`
}

func (e *Engine) postParse() string {
	var b strings.Builder
	b.WriteString(`# container setup
WgDockerSetup

# translate file arguments to automount paths
`)
	for i := range e.comp.Arguments {
		b.WriteString(mountRewrite(&e.comp.Arguments[i]))
	}
	b.WriteString(`WRAPGEN_EXTRA_MOUNTS+=( "$(WgAutodetectMountArg "$WRAPGEN_META_RESOURCES_DIR")" )
WRAPGEN_META_RESOURCES_DIR=$(WgAutodetectMount "$WRAPGEN_META_RESOURCES_DIR")
WRAPGEN_EXTRA_MOUNTS+=( "$(WgAutodetectMountArg "$WRAPGEN_META_TEMP_DIR")" )
WRAPGEN_META_TEMP_DIR=$(WgAutodetectMount "$WRAPGEN_META_TEMP_DIR")

`)
	b.WriteString(e.debugBlock())
	b.WriteString(e.chownTrap())
	return b.String()
}

// mountRewrite translates one file argument's value to container paths and
// records the corresponding bind mounts. Multiple values are split on the
// separator, translated one by one and rejoined with the same separator.
func mountRewrite(a *component.Argument) string {
	if a.Type != component.TypeFile {
		return ""
	}
	v := a.VarName()
	if !a.Multiple {
		return fmt.Sprintf(`if [ ! -z ${%[1]s+x} ]; then
  WRAPGEN_EXTRA_MOUNTS+=( "$(WgAutodetectMountArg "$%[1]s")" )
  %[1]s=$(WgAutodetectMount "$%[1]s")
fi
`, v)
	}
	return fmt.Sprintf(`if [ ! -z ${%[1]s+x} ]; then
  WG_MOUNT_REBUILT=
  WG_MOUNT_FIRST=1
  IFS=%[2]s read -r -a WG_ELEMS <<< "$%[1]s"
  for WG_ELEM in "${WG_ELEMS[@]}"; do
    WRAPGEN_EXTRA_MOUNTS+=( "$(WgAutodetectMountArg "$WG_ELEM")" )
    WG_ELEM=$(WgAutodetectMount "$WG_ELEM")
    if [ $WG_MOUNT_FIRST -eq 1 ]; then
      WG_MOUNT_REBUILT="$WG_ELEM"
      WG_MOUNT_FIRST=0
    else
      WG_MOUNT_REBUILT="$WG_MOUNT_REBUILT%[3]s$WG_ELEM"
    fi
  done
  %[1]s="$WG_MOUNT_REBUILT"
fi
`, v, bash.SingleQuote(a.Sep()), bash.Escape(a.Sep(), bash.EscapeOpts{Quote: true, Backtick: true}))
}

func (e *Engine) debugBlock() string {
	return `if [ "$WRAPGEN_MODE" == "debug" ]; then
  WgWarning "Entering debug shell in image '$WRAPGEN_ENGINE_IMAGE'"
  docker run --entrypoint=bash --rm -it "${WRAPGEN_EXTRA_MOUNTS[@]}" -w "$WRAPGEN_META_RESOURCES_DIR" "$WRAPGEN_ENGINE_IMAGE"
  exit 0
fi

`
}

// chownTrap restores host ownership of every output file argument that
// holds a value. The trap runs on every exit path, success or failure, and
// never masks the primary exit code.
func (e *Engine) chownTrap() string {
	var outputs []*component.Argument
	for i := range e.comp.Arguments {
		a := &e.comp.Arguments[i]
		if a.Type == component.TypeFile && a.Direction == component.Output {
			outputs = append(outputs, a)
		}
	}
	if len(outputs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("WgPerformChown() {\n")
	for _, a := range outputs {
		v := a.VarName()
		if a.Multiple {
			fmt.Fprintf(&b, `  if [ ! -z ${%[1]s+x} ]; then
    IFS=%[2]s read -r -a WG_ELEMS <<< "$%[1]s"
    for WG_ELEM in "${WG_ELEMS[@]}"; do
      WgDockerChown "$WG_ELEM"
    done
  fi
`, v, bash.SingleQuote(a.Sep()))
			continue
		}
		fmt.Fprintf(&b, "  if [ ! -z ${%[1]s+x} ]; then\n    WgDockerChown \"$%[1]s\"\n  fi\n", v)
	}
	b.WriteString("}\ntrap WgPerformChown EXIT\n\n")
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
