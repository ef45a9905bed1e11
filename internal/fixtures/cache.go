package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/posqa/posuite/internal/models"
)

// Fixture file names inside the fixtures directory
const (
	ProductsFile  = "productDetails.json"
	CustomersFile = "customerDetails.json"
)

// ErrFixtureNotFound is returned when a fixture file has not been primed yet
var ErrFixtureNotFound = errors.New("fixture not found, run setup first")

// Source is the part of the backend API the cache is primed from
type Source interface {
	GetProducts(ctx context.Context, productIDs []int) ([]json.RawMessage, error)
	GetCustomers(ctx context.Context, customerID int) ([]json.RawMessage, error)
}

// Cache materializes reference products and customers to local files
type Cache struct {
	dir    string
	source Source
	logger *slog.Logger
}

// NewCache creates a cache in dir. source may be nil for a read-only cache.
func NewCache(dir string, source Source, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{dir: dir, source: source, logger: logger}
}

// PrimeProducts fetches the products and rewrites the product fixture keyed
// by English name. Malformed entries are logged and skipped.
func (c *Cache) PrimeProducts(ctx context.Context, ids []int) (int, error) {
	if c.source == nil {
		return 0, errors.New("fixture cache has no source")
	}

	records, err := c.source.GetProducts(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	byName := make(map[string]json.RawMessage, len(records))
	for i, record := range records {
		var p models.Product
		if err := json.Unmarshal(record, &p); err != nil || !p.Valid() {
			c.logger.Warn("skipping invalid product record", "index", i, "record", string(record))
			continue
		}
		byName[p.Name.EN] = record
	}

	if err := c.write(ProductsFile, byName); err != nil {
		return 0, err
	}
	c.logger.Info("primed product fixtures", "count", len(byName), "file", c.path(ProductsFile))
	return len(byName), nil
}

// PrimeCustomers fetches each customer and rewrites the customer fixture keyed by id
func (c *Cache) PrimeCustomers(ctx context.Context, ids []int) (int, error) {
	if c.source == nil {
		return 0, errors.New("fixture cache has no source")
	}

	byID := make(map[string]json.RawMessage)
	for _, id := range ids {
		records, err := c.source.GetCustomers(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch customer %d: %w", id, err)
		}
		for i, record := range records {
			var cust models.Customer
			if err := json.Unmarshal(record, &cust); err != nil || cust.ID == 0 {
				c.logger.Warn("skipping invalid customer record", "customerID", id, "index", i)
				continue
			}
			byID[strconv.Itoa(int(cust.ID))] = record
		}
	}

	if err := c.write(CustomersFile, byID); err != nil {
		return 0, err
	}
	c.logger.Info("primed customer fixtures", "count", len(byID), "file", c.path(CustomersFile))
	return len(byID), nil
}

// LoadProducts reads the product fixture
func (c *Cache) LoadProducts() (models.ProductFixtures, error) {
	var products models.ProductFixtures
	if err := c.read(ProductsFile, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// LoadCustomers reads the customer fixture
func (c *Cache) LoadCustomers() (models.CustomerFixtures, error) {
	var customers models.CustomerFixtures
	if err := c.read(CustomersFile, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Cache) path(name string) string {
	return filepath.Join(c.dir, name)
}

func (c *Cache) read(name string, v any) error {
	data, err := os.ReadFile(c.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", c.path(name), ErrFixtureNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse fixture %s: %w", c.path(name), err)
	}
	return nil
}

// write replaces the fixture file wholesale. Map keys are sorted and every
// record is re-indented, so the same input always produces the same bytes.
func (c *Cache) write(name string, records map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode fixture: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create fixtures directory: %w", err)
	}

	path := c.path(name)
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fixture %s: %w", path, err)
	}
	return nil
}
