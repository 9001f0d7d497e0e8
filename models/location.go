package models

// Location is a venue the provider works at.
type Location struct {
	ID         string `bson:"id" json:"id"`
	Name       string `bson:"name" json:"name"`
	Address    string `bson:"address,omitempty" json:"address,omitempty"`
	PostalCode int    `bson:"postalCode" json:"postalCode"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	Area       string `bson:"area,omitempty" json:"area,omitempty"`
}

// CustomerLocation is the address a customer books treatment at.
type CustomerLocation struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode int    `bson:"postalCode" json:"postalCode"`
}
