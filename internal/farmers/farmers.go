// Package farmers holds marketplace users, their sales transactions and the
// farmer dashboard built from them.
package farmers

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrFarmerNotFound is returned when no farmer has the requested id
var ErrFarmerNotFound = errors.New("farmer not found")

// Role is a marketplace user role
type Role string

const (
	// RoleFarmer sells products
	RoleFarmer Role = "farmer"
	// RoleBuyer purchases products
	RoleBuyer Role = "buyer"
	// RoleAdmin manages the marketplace
	RoleAdmin Role = "admin"
)

// User is a marketplace account
type User struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Role       Role     `json:"role"`
	Village    string   `json:"village,omitempty"`
	State      string   `json:"state,omitempty"`
	TotalSales float64  `json:"totalSales"`
	Rating     float64  `json:"rating"`
	JoinedDate string   `json:"joinedDate,omitempty"`
	Produce    []string `json:"produce,omitempty"`
	LandSize   string   `json:"landSize,omitempty"`
}

// IsFarmer reports whether the user sells on the marketplace
func (u *User) IsFarmer() bool {
	return u.Role == RoleFarmer
}

// Transaction is a single order placed with a seller
type Transaction struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"orderId"`
	SellerID    string  `json:"sellerId"`
	BuyerName   string  `json:"buyerName"`
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
	OrderDate   string  `json:"orderDate"`
	Rating      *int    `json:"rating,omitempty"`
	Feedback    string  `json:"feedback,omitempty"`
}

// Directory is the read-only set of users and transactions
type Directory struct {
	users        []User
	transactions []Transaction
	index        map[string]int
}

// NewDirectory builds a directory, rejecting duplicate user ids
func NewDirectory(users []User, transactions []Transaction) (*Directory, error) {
	d := &Directory{
		users:        make([]User, 0, len(users)),
		transactions: append([]Transaction(nil), transactions...),
		index:        make(map[string]int, len(users)),
	}

	var errs []error
	for i, u := range users {
		if u.ID == "" {
			errs = append(errs, fmt.Errorf("user[%d]: id is required", i))
			continue
		}
		if _, exists := d.index[u.ID]; exists {
			errs = append(errs, fmt.Errorf("user[%d]: duplicate id %q", i, u.ID))
			continue
		}
		u.Produce = append([]string(nil), u.Produce...)
		d.index[u.ID] = len(d.users)
		d.users = append(d.users, u)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid users: %w", errors.Join(errs...))
	}

	return d, nil
}

// ParseDirectory decodes the users and transactions fixtures
func ParseDirectory(usersData, transactionsData []byte) (*Directory, error) {
	var users []User
	if err := json.Unmarshal(usersData, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}
	var transactions []Transaction
	if err := json.Unmarshal(transactionsData, &transactions); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}
	return NewDirectory(users, transactions)
}

// Farmers returns every user with the farmer role, in fixture order
func (d *Directory) Farmers() []User {
	result := []User{}
	for i := range d.users {
		if d.users[i].IsFarmer() {
			result = append(result, d.users[i])
		}
	}
	return result
}

// DemoFarmer returns the first farmer in fixture order
func (d *Directory) DemoFarmer() (User, error) {
	for i := range d.users {
		if d.users[i].IsFarmer() {
			return d.users[i], nil
		}
	}
	return User{}, ErrFarmerNotFound
}

// Get returns the farmer with the given id. Users with other roles are not found.
func (d *Directory) Get(id string) (User, error) {
	i, ok := d.index[id]
	if !ok || !d.users[i].IsFarmer() {
		return User{}, fmt.Errorf("%w: %s", ErrFarmerNotFound, id)
	}
	return d.users[i], nil
}

// TransactionsFor returns the transactions sold by sellerID, in fixture order
func (d *Directory) TransactionsFor(sellerID string) []Transaction {
	result := []Transaction{}
	for _, t := range d.transactions {
		if t.SellerID == sellerID {
			result = append(result, t)
		}
	}
	return result
}
