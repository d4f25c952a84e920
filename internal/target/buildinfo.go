package target

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/google/uuid"

	"github.com/greatliontech/wrapgen/pkg/component"
)

// BuildInfoFile is the bundle's provenance record.
const BuildInfoFile = ".build-info.yaml"

// BuildInfo records how an artifact bundle came to be.
type BuildInfo struct {
	BuildID     string    `yaml:"build_id"`
	Component   string    `yaml:"component"`
	Version     string    `yaml:"version,omitempty"`
	Engine      string    `yaml:"engine"`
	Image       string    `yaml:"image,omitempty"`
	ToolVersion string    `yaml:"tool_version"`
	BuiltAt     time.Time `yaml:"built_at"`
	ConfigPath  string    `yaml:"config_path,omitempty"`
	OutputDir   string    `yaml:"output_dir,omitempty"`
	GitRemote   string    `yaml:"git_remote,omitempty"`
	GitCommit   string    `yaml:"git_commit,omitempty"`
}

// NewBuildInfo assembles the provenance record for one generation run.
// Paths are anonymized and git details are filled in when the config lives
// inside a repository.
func NewBuildInfo(comp *component.Component, configPath, engine, image, toolVersion string) *BuildInfo {
	info := &BuildInfo{
		BuildID:     uuid.NewString(),
		Component:   comp.Name,
		Version:     comp.Version,
		Engine:      engine,
		Image:       image,
		ToolVersion: toolVersion,
		BuiltAt:     time.Now().UTC(),
		ConfigPath:  Anonymize(configPath),
	}
	if remote, commit, ok := gitProvenance(filepath.Dir(configPath)); ok {
		info.GitRemote = remote
		info.GitCommit = commit
	}
	return info
}

// gitProvenance reports the origin remote and HEAD commit of the
// repository containing dir, if any.
func gitProvenance(dir string) (remote, commit string, ok bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", false
	}
	if head, err := repo.Head(); err == nil {
		commit = head.Hash().String()
	}
	if r, err := repo.Remote("origin"); err == nil && len(r.Config().URLs) > 0 {
		remote = r.Config().URLs[0]
	}
	return remote, commit, remote != "" || commit != ""
}

// Anonymize replaces the user's home directory prefix with "~" so recorded
// paths do not leak usernames.
func Anonymize(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + path[len(home):]
	}
	return path
}
