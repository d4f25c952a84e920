package generate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/greatliontech/wrapgen/pkg/component"
)

// renderMetaInit seeds the metadata namespace. Declared component
// requirements become defaults; the runtime meta-flags overwrite them and
// an empty value clears the field entirely.
func renderMetaInit(comp *component.Component) string {
	var b strings.Builder
	b.WriteString("# component metadata\n")
	fmt.Fprintf(&b, "WRAPGEN_META_NAME=\"%s\"\n", escapeValue(comp.Name))
	b.WriteString("WRAPGEN_META_RESOURCES_DIR=$(WgSourceDir \"${BASH_SOURCE[0]}\")\n")
	b.WriteString("WRAPGEN_META_TEMP_DIR=\"$TEMP_DIR\"\n")
	nproc := ""
	if comp.Require.NProc > 0 {
		nproc = strconv.Itoa(comp.Require.NProc)
	}
	fmt.Fprintf(&b, "WRAPGEN_META_N_PROC=\"%s\"\n", nproc)
	fmt.Fprintf(&b, "WRAPGEN_META_MEMORY=\"%s\"\n", escapeValue(comp.Require.Memory))
	b.WriteString("\n")
	return b.String()
}

// renderMetaDerive turns the raw memory string into the exported unit
// sextet. All six stay empty strings when memory is unset; the factors
// must match ParseMemory and DeriveMemoryUnits exactly.
func renderMetaDerive() string {
	return `# derive metadata fields
WRAPGEN_META_MEMORY_B=""
WRAPGEN_META_MEMORY_KB=""
WRAPGEN_META_MEMORY_MB=""
WRAPGEN_META_MEMORY_GB=""
WRAPGEN_META_MEMORY_TB=""
WRAPGEN_META_MEMORY_PB=""
if [ ! -z "$WRAPGEN_META_MEMORY" ]; then
  WG_MEMORY_B=$(WgParseMemory "$WRAPGEN_META_MEMORY")
  if [ -z "$WG_MEMORY_B" ]; then
    WgError "Invalid memory value '$WRAPGEN_META_MEMORY', expected <number><B|KB|MB|GB|TB|PB>."
    exit 1
  fi
  WRAPGEN_META_MEMORY_B="$WG_MEMORY_B"
  WRAPGEN_META_MEMORY_KB=$(( WG_MEMORY_B / 1024 ))
  WRAPGEN_META_MEMORY_MB=$(( WG_MEMORY_B / 1024 ** 2 ))
  WRAPGEN_META_MEMORY_GB=$(( WG_MEMORY_B / 1024 ** 3 ))
  WRAPGEN_META_MEMORY_TB=$(( WG_MEMORY_B / 1024 ** 4 ))
  WRAPGEN_META_MEMORY_PB=$(( WG_MEMORY_B / 1024 ** 5 ))
fi

`
}

// renderExports exports the metadata fields unconditionally and every
// argument variable that holds a value.
func renderExports(args []component.Argument) string {
	var b strings.Builder
	b.WriteString("# export parsed values\n")
	for _, f := range component.MetaFields {
		fmt.Fprintf(&b, "export %s%s\n", component.MetaPrefix, f)
	}
	for i := range args {
		v := args[i].VarName()
		fmt.Fprintf(&b, "if [ ! -z ${%[1]s+x} ]; then export %[1]s; fi\n", v)
	}
	b.WriteString("\n")
	return b.String()
}
