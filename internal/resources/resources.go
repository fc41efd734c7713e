// Package resources supplies the mandatory training catalogue: it lists the
// available items, fetches their bytes and turns documents into text a
// collaborator can discuss.
package resources

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/studyflow/internal/learning"
)

// ErrNotFound is returned when an item's content cannot be located.
var ErrNotFound = errors.New("resource not found")

// Item is one entry of the catalogue.
type Item struct {
	Title      string `yaml:"title"`
	ContentURI string `yaml:"uri"`
	Content    string `yaml:"description"`
	Type       string `yaml:"type"`
}

// Provider lists catalogue items and downloads them to local files.
type Provider interface {
	List(ctx context.Context) ([]Item, error)
	Download(ctx context.Context, item Item) (string, error)
}

// idNamespace scopes resource ids derived from content URIs.
var idNamespace = uuid.MustParse("6f1c8a52-9a55-4d0f-9a4e-3c1f0b7d2e61")

// PlanFrom builds a mandatory training plan from catalogue items. Ids are
// derived from the content URI so the same item keeps its id across runs.
func PlanFrom(items []Item) learning.Plan {
	plan := learning.Plan{Resources: make([]learning.Resource, 0, len(items))}
	for _, it := range items {
		key := it.ContentURI
		if key == "" {
			key = it.Title
		}
		plan.Resources = append(plan.Resources, learning.Resource{
			ID:          uuid.NewSHA1(idNamespace, []byte(key)).String(),
			Title:       it.Title,
			URL:         it.ContentURI,
			Type:        it.Type,
			Description: it.Content,
		})
	}
	return learning.Normalize(plan)
}

// ItemFor maps a plan resource back to a catalogue item.
func ItemFor(r learning.Resource) Item {
	return Item{Title: r.Title, ContentURI: r.URL, Content: r.Description, Type: r.Type}
}

// IsPDF reports whether an item of type typ at path holds PDF content.
func IsPDF(typ, path string) bool {
	return strings.EqualFold(typ, "pdf") ||
		strings.EqualFold(typ, "application/pdf") ||
		strings.HasSuffix(strings.ToLower(path), ".pdf")
}
