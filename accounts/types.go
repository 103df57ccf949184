package accounts

import "go.mongodb.org/mongo-driver/bson/primitive"

// accountDoc is an AdWordsAccounts document. Only the fields this
// package reads are mapped.
type accountDoc struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
	Type string             `bson:"type"`
	Data accountData        `bson:"data"`
}

// accountData holds the authorization material stored with an account
type accountData struct {
	RefreshToken string        `bson:"refresh_token"`
	CustomerID   customerIDDoc `bson:"customerId"`
}

type customerIDDoc struct {
	CustomerID string `bson:"customerId"`
}

// customerDoc is a CustomerAccounts document linking a customer to its
// advertising accounts
type customerDoc struct {
	ID       primitive.ObjectID   `bson:"_id"`
	Name     string               `bson:"name"`
	Accounts []primitive.ObjectID `bson:"accounts"`
}
