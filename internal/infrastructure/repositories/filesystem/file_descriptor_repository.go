package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

// FileDescriptorRepository implements repositories.DescriptorRepository on the local disk.
type FileDescriptorRepository struct{}

// NewFileDescriptorRepository creates a new FileDescriptorRepository.
func NewFileDescriptorRepository() repositories.DescriptorRepository {
	return &FileDescriptorRepository{}
}

func (r *FileDescriptorRepository) Read(
	_ context.Context,
	root string,
	descriptor entities.Descriptor,
) (map[string]string, error) {
	path, err := resolve(root, descriptor)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", entities.ErrDescriptorUpdate, descriptor.Path, err)
	}

	return entities.ReadFields(string(content), descriptor)
}

// Update rewrites the whole file with its fields patched. The file is left alone when
// the patch does not change it.
func (r *FileDescriptorRepository) Update(
	_ context.Context,
	root string,
	descriptor entities.Descriptor,
	values map[entities.FieldKind]string,
) (bool, error) {
	path, err := resolve(root, descriptor)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("%w: failed to stat %s: %v", entities.ErrDescriptorUpdate, descriptor.Path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%w: failed to read %s: %v", entities.ErrDescriptorUpdate, descriptor.Path, err)
	}

	patched, err := entities.PatchDescriptor(string(content), descriptor, values)
	if err != nil {
		return false, err
	}
	if patched == string(content) {
		logger.Debugf("[filesystem] %s already up to date", descriptor.Path)
		return false, nil
	}

	if writeErr := os.WriteFile(path, []byte(patched), info.Mode().Perm()); writeErr != nil {
		return false, fmt.Errorf("%w: failed to write %s: %v", entities.ErrDescriptorUpdate, descriptor.Path, writeErr)
	}
	return true, nil
}

// resolve maps a descriptor path onto the working copy, refusing paths that leave it.
func resolve(root string, descriptor entities.Descriptor) (string, error) {
	rel := filepath.FromSlash(descriptor.Path)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: descriptor path %q is outside the working copy", entities.ErrDescriptorUpdate, descriptor.Path)
	}
	return filepath.Join(root, rel), nil
}
