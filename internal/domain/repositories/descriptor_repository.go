package repositories

import (
	"context"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

// DescriptorRepository reads and rewrites descriptor files inside a working copy.
type DescriptorRepository interface {
	// Read returns the current field values of a descriptor, keyed by field name.
	Read(ctx context.Context, root string, descriptor entities.Descriptor) (map[string]string, error)

	// Update patches a descriptor in place and reports whether its content changed.
	Update(
		ctx context.Context,
		root string,
		descriptor entities.Descriptor,
		values map[entities.FieldKind]string,
	) (bool, error)
}
