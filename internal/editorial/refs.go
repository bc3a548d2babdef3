package editorial

import (
	"context"
	"fmt"

	"marquee/internal/services/openai"
)

// Ref is a selectable reference item from a CMS collection.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Authors lists the author collection for the draft form.
func (s *Service) Authors(ctx context.Context) ([]Ref, error) {
	return s.collectionRefs(ctx, s.authorsCollectionID, "Unknown Author")
}

// Categories lists the category collection for the draft form.
func (s *Service) Categories(ctx context.Context) ([]Ref, error) {
	return s.collectionRefs(ctx, s.categoriesCollectionID, "Unknown Category")
}

func (s *Service) collectionRefs(ctx context.Context, collectionID, fallbackName string) ([]Ref, error) {
	if collectionID == "" {
		return []Ref{}, nil
	}
	items, err := s.cms.ListAllItems(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("fetch collection %s: %w", collectionID, err)
	}
	refs := make([]Ref, 0, len(items))
	for _, item := range items {
		name := item.FieldData.String("name")
		if name == "" {
			name = fallbackName
		}
		refs = append(refs, Ref{ID: item.ID, Name: name})
	}
	return refs, nil
}

// refOptions loads id/name/slug triples for the metadata assignment model.
func (s *Service) refOptions(ctx context.Context, collectionID string) ([]openai.RefOption, error) {
	if collectionID == "" {
		return nil, nil
	}
	items, err := s.cms.ListAllItems(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("fetch collection %s: %w", collectionID, err)
	}
	options := make([]openai.RefOption, 0, len(items))
	for _, item := range items {
		options = append(options, openai.RefOption{
			ID:   item.ID,
			Name: item.FieldData.String("name"),
			Slug: item.FieldData.String("slug"),
		})
	}
	return options, nil
}
