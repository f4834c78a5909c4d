package domain

// State is one immutable snapshot of every collection the store owns.
type State struct {
	User                   *User              `json:"user"`
	Transactions           []Transaction      `json:"transactions"`
	CompletedTransactions  []Transaction      `json:"completed_transactions"`
	DeletedTransactions    []Transaction      `json:"deleted_transactions"`
	Inventory              []InventoryItem    `json:"inventory"`
	StockHistory           []StockHistory     `json:"stock_history"`
	FavoriteLocations      []FavoriteLocation `json:"favorite_locations"`
	DeliveryPricingOptions []DeliveryPricing  `json:"delivery_pricing_options"`
	Savings                SavingsState       `json:"savings"`
}

// DefaultState is what a fresh installation starts with.
func DefaultState() *State {
	return &State{
		User:                   DemoUser(),
		Transactions:           []Transaction{},
		CompletedTransactions:  []Transaction{},
		DeletedTransactions:    []Transaction{},
		Inventory:              DefaultInventory(),
		StockHistory:           []StockHistory{},
		FavoriteLocations:      []FavoriteLocation{},
		DeliveryPricingOptions: DefaultDeliveryPricing(),
		Savings:                SavingsState{Entries: []SavingsEntry{}},
	}
}

// DemoUser is the only account the demo credentials log in as.
func DemoUser() *User {
	return &User{ID: "1", Name: "Admin Rental", Email: "admin@psrental.com", Role: UserRoleAdmin}
}

// Clone deep-copies the snapshot.
func (s *State) Clone() *State {
	c := &State{
		Transactions:           cloneTransactions(s.Transactions),
		CompletedTransactions:  cloneTransactions(s.CompletedTransactions),
		DeletedTransactions:    cloneTransactions(s.DeletedTransactions),
		Inventory:              append([]InventoryItem{}, s.Inventory...),
		StockHistory:           append([]StockHistory{}, s.StockHistory...),
		FavoriteLocations:      append([]FavoriteLocation{}, s.FavoriteLocations...),
		DeliveryPricingOptions: append([]DeliveryPricing{}, s.DeliveryPricingOptions...),
		Savings: SavingsState{
			TotalBalance:    s.Savings.TotalBalance,
			Entries:         append([]SavingsEntry{}, s.Savings.Entries...),
			LastDepositDate: s.Savings.LastDepositDate,
		},
	}
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return c
}

func cloneTransactions(in []Transaction) []Transaction {
	out := make([]Transaction, 0, len(in))
	for _, t := range in {
		out = append(out, t.Clone())
	}
	return out
}

// FindActive returns the index of the active transaction with the given id, or -1.
func (s *State) FindActive(id string) int {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// FindInventoryItem returns the index of the inventory item with the given id, or -1.
func (s *State) FindInventoryItem(id string) int {
	for i := range s.Inventory {
		if s.Inventory[i].ID == id {
			return i
		}
	}
	return -1
}

// TakeUnits consumes one unit of every device type in types.
func (s *State) TakeUnits(types []DeviceType) {
	for i := range s.Inventory {
		if containsDevice(types, s.Inventory[i].Type) {
			s.Inventory[i].Take()
		}
	}
}

// ReturnUnits gives back one unit of every device type in types.
func (s *State) ReturnUnits(types []DeviceType) {
	for i := range s.Inventory {
		if containsDevice(types, s.Inventory[i].Type) {
			s.Inventory[i].Return()
		}
	}
}

func containsDevice(types []DeviceType, t DeviceType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// AllRevenueTransactions is the union used by revenue views: active then completed.
func (s *State) AllRevenueTransactions() []Transaction {
	out := make([]Transaction, 0, len(s.Transactions)+len(s.CompletedTransactions))
	out = append(out, s.Transactions...)
	return append(out, s.CompletedTransactions...)
}
