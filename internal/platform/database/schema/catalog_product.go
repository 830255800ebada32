package schema

// CatalogProductTable represents the 'catalog.product' table
type CatalogProductTable struct {
	Table       string
	ID          string
	OwnerID     string
	Title       string
	Slug        string
	Description string
	Price       string
	Stock       string
	Image       string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogProduct is the schema definition for catalog.product
var CatalogProduct = CatalogProductTable{
	Table:       "catalog.product",
	ID:          "id",
	OwnerID:     "ownerid",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Price:       "price",
	Stock:       "stock",
	Image:       "image",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t CatalogProductTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Slug, t.Description, t.Price,
		t.Stock, t.Image, t.CreatedAt, t.UpdatedAt,
	}
}
