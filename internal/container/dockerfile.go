package container

import (
	"fmt"
	"sort"
	"strings"

	"github.com/greatliontech/wrapgen/pkg/component"
)

// renderDockerfile lowers the base image plus the component's setup
// requirements to an image recipe: one FROM line, declared build args, and
// one RUN line per requirement.
func renderDockerfile(eng *component.Engine) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "FROM %s\n", eng.Image)

	if len(eng.BuildArgs) > 0 {
		keys := make([]string, 0, len(eng.BuildArgs))
		for k := range eng.BuildArgs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "ARG %s\n", k)
		}
	}

	for _, req := range eng.Setup {
		line, err := requirementLine(req)
		if err != nil {
			return "", err
		}
		b.WriteString("\n" + line + "\n")
	}
	return b.String(), nil
}

func requirementLine(req component.SetupRequirement) (string, error) {
	pkgs := strings.Join(req.Packages, " ")
	switch req.Type {
	case "apt":
		if pkgs == "" {
			return "", fmt.Errorf("apt requirement without packages")
		}
		return "RUN apt-get update && \\\n" +
			"  DEBIAN_FRONTEND=noninteractive apt-get install -y --no-install-recommends " + pkgs + " && \\\n" +
			"  rm -rf /var/lib/apt/lists/*", nil
	case "apk":
		if pkgs == "" {
			return "", fmt.Errorf("apk requirement without packages")
		}
		return "RUN apk add --no-cache " + pkgs, nil
	case "yum":
		if pkgs == "" {
			return "", fmt.Errorf("yum requirement without packages")
		}
		return "RUN yum install -y " + pkgs + " && yum clean all", nil
	case "pip":
		if pkgs == "" {
			return "", fmt.Errorf("pip requirement without packages")
		}
		return "RUN pip install --no-cache-dir " + pkgs, nil
	case "r":
		if pkgs == "" {
			return "", fmt.Errorf("r requirement without packages")
		}
		quoted := make([]string, len(req.Packages))
		for i, p := range req.Packages {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		return `RUN Rscript -e 'install.packages(c(` + strings.Join(quoted, ", ") + `), repos = "https://cran.r-project.org")'`, nil
	case "run":
		if req.Command == "" {
			return "", fmt.Errorf("run requirement without a command")
		}
		return "RUN " + req.Command, nil
	default:
		return "", fmt.Errorf("unknown setup requirement type %q", req.Type)
	}
}
