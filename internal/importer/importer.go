// Package importer loads catalog CSV exports into the store.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"flowershop/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

type AddOnWriter interface {
	Upsert(ctx context.Context, addOn domain.AddOn) (*domain.AddOn, error)
}

// Kind identifies the catalog entity a CSV file holds.
type Kind string

const (
	KindProducts   Kind = "products"
	KindCategories Kind = "categories"
	KindAddOns     Kind = "addons"
)

// CSVImporter reads catalog CSV files and inserts/updates products, categories or add-ons.
// The file kind is detected from its header row.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
	addOns     AddOnWriter
	newID      func() string

	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, addOns AddOnWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		addOns:      addOns,
		newID:       uuid.NewString,
		categoryIDs: make(map[string]string),
	}
}

type productRow struct {
	ID          string
	Slug        string
	Name        string
	Description string
	Price       float64
	Category    string
	Images      []string
	AddOnIDs    []string
}

// Run parses CSV rows and upserts them, returning the number of saved records.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	switch DetectKind(headers) {
	case KindAddOns:
		if i.addOns == nil {
			return 0, errors.New("add-on repository not configured")
		}
		return i.runAddOns(ctx, index)
	case KindProducts:
		if i.products == nil {
			return 0, errors.New("product repository not configured")
		}
		return i.runProducts(ctx, index)
	case KindCategories:
		if i.categories == nil {
			return 0, errors.New("category repository not configured")
		}
		return i.runCategories(ctx, index)
	}
	return 0, fmt.Errorf("unrecognized csv header: %s", strings.Join(headers, ","))
}

// DetectKind guesses the file kind from header names.
func DetectKind(headers []string) Kind {
	idx := headerIndex(headers)
	_, hasPrice := idx["price"]
	_, hasCustomizable := idx["customizable"]
	_, hasName := idx["name"]
	_, hasSlug := idx["slug"]
	switch {
	case hasPrice && hasCustomizable:
		return KindAddOns
	case hasPrice && hasName:
		return KindProducts
	case hasName && hasSlug:
		return KindCategories
	}
	return ""
}

func (i *CSVImporter) runProducts(ctx context.Context, index map[string]int) (int, error) {
	var (
		current  *productRow
		imported int
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseProductRow(record, index)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if row.Name != "" {
			if current != nil {
				if err := i.saveProduct(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil && len(row.Images) > 0 {
			current.Images = append(current.Images, row.Images...)
		}
	}

	if current != nil {
		if err := i.saveProduct(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) saveProduct(ctx context.Context, row *productRow) error {
	if row.Name == "" || row.Price <= 0 {
		return fmt.Errorf("invalid product row (missing required fields) for %q", row.Name)
	}
	if row.Slug == "" {
		row.Slug = Slugify(row.Name)
	}
	if row.ID == "" {
		row.ID = i.newID()
	}

	categoryID, err := i.categoryID(ctx, row.Category)
	if err != nil {
		return err
	}

	p := domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Price:       row.Price,
		Images:      row.Images,
		Category:    categoryID,
		Description: row.Description,
		AddOnIDs:    row.AddOnIDs,
	}
	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Slug, err)
	}
	return nil
}

// categoryID resolves a category slug, creating the category when it does not exist yet.
func (i *CSVImporter) categoryID(ctx context.Context, slug string) (string, error) {
	slug = Slugify(slug)
	if slug == "" || i.categories == nil {
		return slug, nil
	}
	if id, ok := i.categoryIDs[slug]; ok {
		return id, nil
	}
	c, err := i.categories.Upsert(ctx, domain.Category{ID: i.newID(), Name: titleFromSlug(slug), Slug: slug})
	if err != nil {
		return "", fmt.Errorf("upsert category %q: %w", slug, err)
	}
	i.categoryIDs[slug] = c.ID
	return c.ID, nil
}

func (i *CSVImporter) runCategories(ctx context.Context, index map[string]int) (int, error) {
	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		name := pick(record, index, "name")
		if name == "" {
			continue
		}
		slug := Slugify(pick(record, index, "slug"))
		if slug == "" {
			slug = Slugify(name)
		}
		id := pick(record, index, "id")
		if id == "" {
			id = i.newID()
		}
		c := domain.Category{
			ID:          id,
			Name:        name,
			Slug:        slug,
			Description: pick(record, index, "description"),
			BannerImage: pick(record, index, "bannerImage"),
		}
		saved, err := i.categories.Upsert(ctx, c)
		if err != nil {
			return imported, fmt.Errorf("upsert category %q: %w", slug, err)
		}
		i.categoryIDs[slug] = saved.ID
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) runAddOns(ctx context.Context, index map[string]int) (int, error) {
	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		name := pick(record, index, "name")
		if name == "" {
			continue
		}
		price, err := parsePrice(pick(record, index, "price"))
		if err != nil {
			return imported, fmt.Errorf("add-on %q: %w", name, err)
		}
		id := pick(record, index, "id")
		if id == "" {
			id = Slugify(name)
		}
		customizable, _ := strconv.ParseBool(pick(record, index, "customizable"))
		a := domain.AddOn{
			ID:           id,
			Name:         name,
			Price:        price,
			Image:        pick(record, index, "image"),
			Customizable: customizable,
		}
		if _, err := i.addOns.Upsert(ctx, a); err != nil {
			return imported, fmt.Errorf("upsert add-on %q: %w", id, err)
		}
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))] = i
	}
	return idx
}

func parseProductRow(record []string, index map[string]int) (*productRow, error) {
	name := pick(record, index, "name")
	images := splitList(pick(record, index, "images"))
	if name == "" && len(images) == 0 {
		return nil, nil
	}
	row := &productRow{
		ID:          pick(record, index, "id"),
		Slug:        pick(record, index, "slug"),
		Name:        name,
		Description: pick(record, index, "description"),
		Category:    pick(record, index, "category"),
		Images:      images,
		AddOnIDs:    splitList(pick(record, index, "addOns")),
	}
	if name != "" {
		price, err := parsePrice(pick(record, index, "price"))
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", name, err)
		}
		row.Price = price
	}
	return row, nil
}

// parsePrice accepts "1299.50", "1,299.50" or "₱1,299.50" and rounds to centavos.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "₱"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price %q", s)
	}
	return d.Round(2).InexactFloat64(), nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	s = nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(s, "-")
}

func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
