package schema

// CartItemTable represents the 'cart.item' table
type CartItemTable struct {
	Table     string
	ID        string
	UserID    string
	ProductID string
	Quantity  string
	CreatedAt string
	UpdatedAt string
}

// CartItem is the schema definition for cart.item
var CartItem = CartItemTable{
	Table:     "cart.item",
	ID:        "id",
	UserID:    "userid",
	ProductID: "productid",
	Quantity:  "quantity",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t CartItemTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.ProductID, t.Quantity, t.CreatedAt, t.UpdatedAt,
	}
}
