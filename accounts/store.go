// Package accounts looks up customer, account, and authorization info
// stored in the AppX MongoDB database.
//
// A lookup miss (unknown customer id or account name) is not an error:
// the affected methods return an empty string so callers can decide how
// to proceed. Connection and query failures are returned as errors.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	accountsCollection  = "AdWordsAccounts"
	customersCollection = "CustomerAccounts"

	connectTimeout = 4 * time.Second
)

// Store reads account and authorization documents from MongoDB
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger
}

// NewStore connects to the accounts database and verifies the connection
func NewStore(ctx context.Context, uri, database string, logger zerolog.Logger) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is required")
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to accounts database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping accounts database: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}, nil
}

// Close disconnects from the accounts database
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// RefreshToken returns the saved OAuth refresh token for the account
// associated with a Google Ads customer id. An unknown customer id
// yields an empty token and no error.
func (s *Store) RefreshToken(ctx context.Context, customerID string) (string, error) {
	var account accountDoc
	err := s.db.Collection(accountsCollection).
		FindOne(ctx, bson.M{"data.customerId.customerId": customerID}).
		Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Debug().Str("customer_id", customerID).Msg("No account found for customer id")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up account for customer %s: %w", customerID, err)
	}

	return account.Data.RefreshToken, nil
}

// CustomerID returns the Google Ads customer id for an account
// identified by its name and optionally the owning customer's name.
// Names are matched case-insensitively. An unknown account yields an
// empty id and no error.
func (s *Store) CustomerID(ctx context.Context, accountName, customerName string) (string, error) {
	criteria := bson.M{"type": "google"}

	if customerName != "" {
		var customer customerDoc
		err := s.db.Collection(customersCollection).
			FindOne(ctx, bson.M{"name": nameRegex(customerName)}).
			Decode(&customer)
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Debug().Str("customer", customerName).Msg("No customer found by name")
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to look up customer %s: %w", customerName, err)
		}

		criteria["_id"] = bson.M{"$in": customer.Accounts}
	}

	criteria["name"] = nameRegex(accountName)

	var account accountDoc
	err := s.db.Collection(accountsCollection).FindOne(ctx, criteria).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Debug().Str("account", accountName).Msg("No account found by name")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up account %s: %w", accountName, err)
	}

	return account.Data.CustomerID.CustomerID, nil
}

// nameRegex builds a case-insensitive exact-match pattern for a name
func nameRegex(name string) primitive.Regex {
	return primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(name) + "$",
		Options: "i",
	}
}
