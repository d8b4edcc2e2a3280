package entities

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultArchiveURLTemplate = "https://github.com/{owner}/{repo}/archive/refs/tags/{tag}.tar.gz"
	defaultProvider           = "github"
)

// PackageTarget describes which upstream project is tracked and which descriptor
// fields are rewritten for it.
type PackageTarget struct {
	Package            string // display name, e.g. "Vim"
	Distro             string // e.g. "yiffOS"
	Provider           string // release provider type, e.g. "github"
	Upstream           Repository
	APIBaseURL         string
	ArchiveURLTemplate string
	Descriptors        []Descriptor
}

type targetFile struct {
	Package            string           `yaml:"package"`
	Distro             string           `yaml:"distro"`
	Provider           string           `yaml:"provider"`
	Owner              string           `yaml:"owner"`
	Repo               string           `yaml:"repo"`
	APIBaseURL         string           `yaml:"api_base_url"`
	ArchiveURLTemplate string           `yaml:"archive_url_template"`
	Descriptors        []descriptorFile `yaml:"descriptors"`
}

type descriptorFile struct {
	Path   string      `yaml:"path"`
	Fields []fieldFile `yaml:"fields"`
}

type fieldFile struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Pattern string `yaml:"pattern"`
}

// DefaultPackageTarget returns the built-in Vim profile for the yiffOS PKGSCRIPT repository.
func DefaultPackageTarget() *PackageTarget {
	target, err := newPackageTarget(targetFile{
		Package:  "Vim",
		Distro:   "yiffOS",
		Provider: defaultProvider,
		Owner:    "vim",
		Repo:     "vim",
		Descriptors: []descriptorFile{
			{
				Path: "vim/PKGSCRIPT",
				Fields: []fieldFile{
					{Name: "VERSION", Kind: string(FieldVersion), Pattern: `(?m)^VERSION="([^"\n]*)"`},
					{Name: "SUM", Kind: string(FieldChecksum), Pattern: `(?m)^SUM=\("([^"\n]*)"\)`},
				},
			},
			{
				Path: "vim/PKGINFO",
				Fields: []fieldFile{
					{Name: "version", Kind: string(FieldVersion), Pattern: `(?m)^    "version": "([^"\n]*)",`},
				},
			},
		},
	})
	if err != nil {
		panic(err) // built-in patterns are constant
	}
	return target
}

// NewPackageTarget loads a target profile from a YAML file.
func NewPackageTarget(path string) (*PackageTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read target file %q: %v", ErrConfiguration, path, err)
	}

	var file targetFile
	if unmarshalErr := yaml.Unmarshal(data, &file); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: failed to parse target file: %v", ErrConfiguration, unmarshalErr)
	}

	return newPackageTarget(file)
}

func newPackageTarget(file targetFile) (*PackageTarget, error) {
	if file.Package == "" || file.Owner == "" || file.Repo == "" {
		return nil, fmt.Errorf("%w: target requires package, owner and repo", ErrConfiguration)
	}
	if len(file.Descriptors) == 0 {
		return nil, fmt.Errorf("%w: target must list at least one descriptor", ErrConfiguration)
	}

	target := &PackageTarget{
		Package:            file.Package,
		Distro:             file.Distro,
		Provider:           file.Provider,
		APIBaseURL:         file.APIBaseURL,
		ArchiveURLTemplate: file.ArchiveURLTemplate,
		Upstream: Repository{
			ID:           file.Owner + "/" + file.Repo,
			Name:         file.Repo,
			Organization: file.Owner,
			ProviderName: file.Provider,
		},
	}
	if target.Provider == "" {
		target.Provider = defaultProvider
		target.Upstream.ProviderName = defaultProvider
	}
	if target.ArchiveURLTemplate == "" {
		target.ArchiveURLTemplate = defaultArchiveURLTemplate
	}

	for i, d := range file.Descriptors {
		if d.Path == "" {
			return nil, fmt.Errorf("%w: descriptors[%d].path is required", ErrConfiguration, i)
		}
		if len(d.Fields) == 0 {
			return nil, fmt.Errorf("%w: descriptors[%d].fields must have at least one entry", ErrConfiguration, i)
		}
		descriptor := Descriptor{Path: d.Path}
		for _, f := range d.Fields {
			field, err := NewDescriptorField(f.Name, FieldKind(f.Kind), f.Pattern)
			if err != nil {
				return nil, err
			}
			descriptor.Fields = append(descriptor.Fields, field)
		}
		target.Descriptors = append(target.Descriptors, descriptor)
	}

	return target, nil
}

// ArchiveURL expands the download template for a tag.
func (t *PackageTarget) ArchiveURL(tag ReleaseTag) string {
	return strings.NewReplacer(
		"{owner}", t.Upstream.Organization,
		"{repo}", t.Upstream.Name,
		"{tag}", tag.Name,
		"{version}", tag.Version(),
	).Replace(t.ArchiveURLTemplate)
}

// CommitMessage returns the fixed commit message for a tag.
func (t *PackageTarget) CommitMessage(tag ReleaseTag) string {
	return fmt.Sprintf("Update %s to %s (Automated)", t.Package, tag.Name)
}

// DescriptorPaths lists the files a run stages.
func (t *PackageTarget) DescriptorPaths() []string {
	paths := make([]string, 0, len(t.Descriptors))
	for _, d := range t.Descriptors {
		paths = append(paths, d.Path)
	}
	return paths
}
