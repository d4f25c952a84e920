// Package container is the docker environment layer: it resolves the
// effective image identity, synthesizes an image recipe when a component
// declares extra setup requirements, and contributes the mount, ownership,
// debug and dockerfile behaviors to the generated wrapper.
package container

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	"golang.org/x/crypto/sha3"

	"github.com/greatliontech/wrapgen/pkg/component"
)

// ImageID identifies a container image. Registry may be empty for images
// that only exist in the local daemon.
type ImageID struct {
	Registry string
	Org      string
	Name     string
	Tag      string
}

// Ref renders the identity as a pullable/runnable reference.
func (i ImageID) Ref() string {
	parts := make([]string, 0, 3)
	if i.Registry != "" {
		parts = append(parts, i.Registry)
	}
	if i.Org != "" {
		parts = append(parts, i.Org)
	}
	parts = append(parts, i.Name)
	return strings.Join(parts, "/") + ":" + i.Tag
}

// ParseImageRef resolves a bare image reference like "alpine:3.20" into a
// canonical identity. The tag defaults to "latest".
func ParseImageRef(s string) (ImageID, error) {
	ref, err := name.ParseReference(s)
	if err != nil {
		return ImageID{}, fmt.Errorf("invalid image reference %q: %w", s, err)
	}
	tag := "latest"
	if t, ok := ref.(name.Tag); ok {
		tag = t.TagStr()
	}
	repo := ref.Context().RepositoryStr()
	org, img := "", repo
	if idx := strings.LastIndex(repo, "/"); idx >= 0 {
		org, img = repo[:idx], repo[idx+1:]
	}
	return ImageID{
		Registry: ref.Context().RegistryStr(),
		Org:      org,
		Name:     img,
		Tag:      tag,
	}, nil
}

// synthesizeImageID derives the identity of an image that has to be built
// for the component. An explicit target tag wins; otherwise the tag is the
// component version (or "latest") suffixed with a content digest of the
// recipe, so a changed recipe never hides behind a stale tag.
func synthesizeImageID(comp *component.Component, dockerfile string) ImageID {
	eng := comp.Engine
	org := eng.TargetOrg
	if org == "" {
		org = comp.Namespace
	}
	tag := eng.TargetTag
	if tag == "" {
		base := comp.Version
		if base == "" {
			base = "latest"
		}
		tag = base + "-" + shortDigest(dockerfile)
	}
	return ImageID{
		Registry: eng.TargetRegistry,
		Org:      org,
		Name:     comp.Name,
		Tag:      tag,
	}
}

// shortDigest returns an 8-character SHAKE256 digest of the text.
func shortDigest(text string) string {
	h := sha3.NewShake256()
	h.Write([]byte(text))
	var sum [4]byte
	h.Read(sum[:])
	return hex.EncodeToString(sum[:])
}
