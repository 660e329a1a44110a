package service

import (
	"strings"

	"creative-builder/internal/model"
)

var catalog = []model.Template{
	{Name: "Instagram Story", PixelWidth: 1080, PixelHeight: 1920, Label: "9:16 Story", Slug: "story"},
	{Name: "Instagram Feed", PixelWidth: 1080, PixelHeight: 1080, Label: "1:1 Square", Slug: "square"},
	{Name: "Facebook Ad", PixelWidth: 1080, PixelHeight: 1350, Label: "4:5 Feed", Slug: "feed"},
}

// ListTemplates returns the output formats in generation order.
func ListTemplates() []model.Template {
	out := make([]model.Template, len(catalog))
	copy(out, catalog)
	return out
}

// FindTemplate resolves a template by label or slug.
func FindTemplate(key string) (model.Template, bool) {
	key = strings.TrimSpace(key)
	for _, t := range catalog {
		if t.Label == key || strings.EqualFold(t.Slug, key) {
			return t, true
		}
	}
	return model.Template{}, false
}
