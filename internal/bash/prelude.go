package bash

// Prelude is the helper function block emitted near the top of every
// generated wrapper. All helpers are prefixed Wg to stay clear of user and
// component namespaces.
const Prelude = `# helper functions
WgError() {
  echo -e "ERROR: $*" >&2
}
WgWarning() {
  echo -e "WARNING: $*" >&2
}
# strip everything up to and including the first '=' of a --flag=value token
WgRemoveFlags() {
  printf '%s\n' "${1#*=}"
}
# resolve the directory of a (possibly symlinked) script
WgSourceDir() {
  local source="$1"
  local dir
  while [ -h "$source" ]; do
    dir="$( cd -P "$( dirname "$source" )" >/dev/null 2>&1 && pwd )"
    source="$(readlink "$source")"
    [[ $source != /* ]] && source="$dir/$source"
  done
  cd -P "$( dirname "$source" )" >/dev/null 2>&1 && pwd
}
# floating point comparisons, bash arithmetic is integer-only
WgFloatLt() {
  awk -v a="$1" -v b="$2" 'BEGIN { exit !(a < b) }'
}
WgFloatGt() {
  awk -v a="$1" -v b="$2" 'BEGIN { exit !(a > b) }'
}
# canonicalize boolean spellings, empty output means invalid
WgNormalizeBool() {
  local v
  v=$(printf '%s' "$1" | tr '[:upper:]' '[:lower:]')
  case "$v" in
    true|yes|1) printf 'true\n';;
    false|no|0) printf 'false\n';;
    *) printf '\n';;
  esac
}
# convert a size with B/KB/MB/GB/TB/PB suffix to bytes,
# empty output means invalid
WgParseMemory() {
  local num unit mult
  if [[ "$1" =~ ^([0-9]+)(B|KB|MB|GB|TB|PB)$ ]]; then
    num="${BASH_REMATCH[1]}"
    unit="${BASH_REMATCH[2]}"
    case "$unit" in
      B)  mult=1;;
      KB) mult=1024;;
      MB) mult=$(( 1024 ** 2 ));;
      GB) mult=$(( 1024 ** 3 ));;
      TB) mult=$(( 1024 ** 4 ));;
      PB) mult=$(( 1024 ** 5 ));;
    esac
    echo $(( num * mult ))
  fi
  return 0
}
`
