package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Name         string
	Email        string
	Password     string
	Image        string
	Role         string
	Status       string
	RefreshToken string
	Wishlist     string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Name:         "name",
	Email:        "email",
	Password:     "passwordhash",
	Image:        "image",
	Role:         "role",
	Status:       "status",
	RefreshToken: "refreshtoken",
	Wishlist:     "wishlist",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Password, t.Image, t.Role, t.Status,
		t.RefreshToken, t.Wishlist, t.CreatedAt, t.UpdatedAt,
	}
}
