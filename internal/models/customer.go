package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Customer is a customer record returned by getCustomers with balance info
type Customer struct {
	ID              CustomerID `json:"id"`
	CustomerID      CustomerID `json:"customerID"`
	FullName        string     `json:"fullName"`
	CompanyName     string     `json:"companyName"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	GroupName       string     `json:"groupName"`
	CustomerType    string     `json:"customerType"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Credit          Amount     `json:"credit"`
	ActualBalance   Amount     `json:"actualBalance"`
	AvailableCredit Amount     `json:"availableCredit"`
	CreditAllowed   Amount     `json:"creditAllowed"`
	CreditLimit     Amount     `json:"creditLimit"`
	RewardPoints    Amount     `json:"rewardPoints"`
}

// DisplayName is the "first last" form the POS customer search matches on
func (c Customer) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// CustomerFixtures maps the customer id (as a string) to the customer record
type CustomerFixtures map[string]Customer

// Get returns the customer with the given id
func (f CustomerFixtures) Get(id int) (Customer, bool) {
	c, ok := f[strconv.Itoa(id)]
	return c, ok
}

// CustomerID is a customer identifier that may arrive as a number or a string
type CustomerID int

// UnmarshalJSON accepts both 5 and "5"
func (id *CustomerID) UnmarshalJSON(data []byte) error {
	var a Amount
	if err := a.UnmarshalJSON(data); err != nil {
		return err
	}
	*id = CustomerID(a)
	return nil
}

// MarshalJSON always writes a number
func (id CustomerID) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(id))
}

// String returns the decimal form used as the fixture key
func (id CustomerID) String() string {
	return strconv.Itoa(int(id))
}
