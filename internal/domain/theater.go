package domain

type Theater struct {
	ID      string
	Name    string
	Address Address
	ShowIDs []ShowID
}

type Address struct {
	AddressLine string
	City        string
	State       string
	Pin         string
}
