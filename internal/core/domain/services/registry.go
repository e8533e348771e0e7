package services

import (
	"fmt"
	"maps"
	"slices"

	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/domain/model/partner"
)

// MapperRegistry resolves the Mapper of each configured partner source.
// It is built once at start-up and read-only afterwards, so concurrent lookups are safe.
type MapperRegistry struct {
	mappers map[kernel.SourceID]Mapper
}

// NewMapperRegistry copies the source to mapper bindings.
func NewMapperRegistry(mappers map[kernel.SourceID]Mapper) (*MapperRegistry, error) {
	registry := &MapperRegistry{mappers: make(map[kernel.SourceID]Mapper, len(mappers))}
	for source, mapper := range mappers {
		if err := source.Validate(); err != nil {
			return nil, err
		}
		if mapper == nil {
			return nil, fmt.Errorf("mapper for source %q is nil", source)
		}
		registry.mappers[source] = mapper
	}
	return registry, nil
}

// NewMapperRegistryFromKinds binds each source to the built-in mapper of its wire format.
//
// Example:
//
//	registry, err := services.NewMapperRegistryFromKinds(map[kernel.SourceID]string{
//	    "logistics-a": services.PartnerAKind,
//	    "logistics-b": services.PartnerBKind,
//	})
func NewMapperRegistryFromKinds(kinds map[kernel.SourceID]string) (*MapperRegistry, error) {
	mappers := make(map[kernel.SourceID]Mapper, len(kinds))
	for source, kind := range kinds {
		mapper, ok := MapperForKind(kind)
		if !ok {
			return nil, fmt.Errorf("source %q: unknown partner format %q", source, kind)
		}
		mappers[source] = mapper
	}
	return NewMapperRegistry(mappers)
}

// Resolve returns the mapper of source or a *partner.ConfigurationError.
func (r *MapperRegistry) Resolve(source kernel.SourceID) (Mapper, error) {
	mapper, ok := r.mappers[source]
	if !ok {
		return nil, partner.NewConfigurationError(source)
	}
	return mapper, nil
}

// Sources returns the registered sources in lexicographic order.
func (r *MapperRegistry) Sources() []kernel.SourceID {
	return slices.Sorted(maps.Keys(r.mappers))
}
