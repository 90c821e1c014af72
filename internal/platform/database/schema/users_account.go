package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table        string
	ID           string
	Email        string
	Nickname     string
	PasswordHash string
	IsAdmin      string
	IsActive     string
	CreatedAt    string
	UpdatedAt    string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:        "users.account",
	ID:           "id",
	Email:        "email",
	Nickname:     "nickname",
	PasswordHash: "passwordhash",
	IsAdmin:      "isadmin",
	IsActive:     "isactive",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t UsersAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Nickname, t.PasswordHash, t.IsAdmin, t.IsActive,
		t.CreatedAt, t.UpdatedAt,
	}
}
