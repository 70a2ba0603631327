package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"loyalty-service/models"
	"loyalty-service/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerSyncClient mirrors customer profiles from the CRM service into the
// local customers table. Segment changes take effect on the next accrual.
type CustomerSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewCustomerSyncClient(db *gorm.DB) *CustomerSyncClient {
	baseURL := os.Getenv("CRM_SYNC_URL")
	if baseURL == "" {
		log.Fatal("CRM_SYNC_URL environment variable is required")
	}
	token := os.Getenv("LOYALTY_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("LOYALTY_SERVICE_TOKEN environment variable is required for customer sync")
	}

	return &CustomerSyncClient{
		BaseURL:    baseURL,
		Token:      token,
		DB:         db,
		HTTPClient: utils.HTTPClient,
	}
}

// GetChangedCustomers fetches profiles changed since the given time.
func (c *CustomerSyncClient) GetChangedCustomers(ctx context.Context, since time.Time) ([]models.Customer, error) {
	since = since.UTC()

	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/customers", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call CRM sync service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("CRM sync service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Customers []models.Customer `json:"customers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode CRM sync response: %w", err)
	}

	return response.Customers, nil
}

// upsertCustomers writes the mirrored profiles, keyed on the CRM customer ID.
func (c *CustomerSyncClient) upsertCustomers(customers []models.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range customers {
		customers[i].LastSyncedAt = now
	}

	return c.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "email", "segment", "is_active", "last_synced_at", "updated_at",
		}),
	}).Create(&customers).Error
}

// PollCustomers keeps the customer mirror fresh until ctx is cancelled.
func PollCustomers(ctx context.Context, client *CustomerSyncClient, pollInterval time.Duration) {
	log.Println("Starting customer profile polling (DB-backed)...")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Customer polling stopped.")
			return
		case <-ticker.C:
			syncStart := time.Now().UTC()
			customers, err := client.GetChangedCustomers(ctx, lastSyncTime)
			if err != nil {
				log.Printf("[CustomerSync] fetch failed: %v", err)
				continue
			}
			if err := client.upsertCustomers(customers); err != nil {
				log.Printf("[CustomerSync] upsert failed: %v", err)
				continue
			}
			if len(customers) > 0 {
				log.Printf("✅ Synced %d customer profiles", len(customers))
			}
			lastSyncTime = syncStart
		}
	}
}
