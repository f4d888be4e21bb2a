package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/NtshVrm/VYSONM2A2/internal/config"
	"github.com/NtshVrm/VYSONM2A2/internal/models"
	"github.com/NtshVrm/VYSONM2A2/internal/shortcode"
	"github.com/NtshVrm/VYSONM2A2/internal/storetest"
)

var _ Store = (*storetest.Store)(nil)

var testClock = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store *storetest.Store, cfg config.ShortenerConfig) *LinkService {
	if cfg.CodeLength == 0 {
		cfg.CodeLength = 6
	}
	s := NewLinkService(store, nil, 0, shortcode.New(cfg.CodeLength), cfg)
	s.now = func() time.Time { return testClock }
	return s
}

func strptr(s string) *string { return &s }

func timeptr(t time.Time) *time.Time { return &t }

func TestCreateGeneratesFreshCode(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	resp, err := svc.Create(ctx, models.CreateLinkRequest{LongURL: "https://example.com"}, nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(resp.ShortCode) != 6 {
		t.Errorf("short code length: got %d want 6", len(resp.ShortCode))
	}
	if resp.ExpiryDate != nil {
		t.Errorf("expiry date: got %v want nil", resp.ExpiryDate)
	}

	// The same URL gets a fresh code each time; reuse is the caller's
	// choice through the lookup endpoint.
	resp2, err := svc.Create(ctx, models.CreateLinkRequest{LongURL: "https://example.com"}, nil)
	if err != nil {
		t.Fatalf("second Create returned error: %v", err)
	}
	if resp2.ShortCode == resp.ShortCode {
		t.Errorf("same URL produced the same code twice: %q", resp.ShortCode)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(storetest.NewStore(), config.ShortenerConfig{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.CreateLinkRequest
	}{
		{"empty URL", models.CreateLinkRequest{LongURL: ""}},
		{"empty custom code", models.CreateLinkRequest{
			LongURL:    "https://example.com",
			CustomCode: strptr(""),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req, nil)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error: got %v want %v", err, ErrValidation)
			}
		})
	}
}

func TestCreateStoresTargetVerbatim(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	// Any non-empty target and any non-empty custom code are stored as
	// given; the service judges neither schemes nor code shapes.
	resp, err := svc.Create(ctx, models.CreateLinkRequest{
		LongURL:    "mailto:ops@example.com",
		CustomCode: strptr("my link!"),
	}, nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.ShortCode != "my link!" {
		t.Errorf("short code: got %q want %q", resp.ShortCode, "my link!")
	}

	link, err := svc.Resolve(ctx, "my link!", "", nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if link.OriginalURL != "mailto:ops@example.com" {
		t.Errorf("original URL: got %q want %q", link.OriginalURL, "mailto:ops@example.com")
	}
}

func TestCreateAcceptsPastExpiry(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	// An already-lapsed expiry is a legal record, it just resolves as
	// expired from the start.
	past := testClock.Add(-time.Hour)
	resp, err := svc.Create(ctx, models.CreateLinkRequest{
		LongURL:    "https://example.com",
		CustomCode: strptr("xyz789"),
		ExpiryDate: timeptr(past),
	}, nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.ShortCode != "xyz789" {
		t.Errorf("short code: got %q want %q", resp.ShortCode, "xyz789")
	}
	if resp.ExpiryDate == nil || !resp.ExpiryDate.Equal(past) {
		t.Errorf("expiry: got %v want %v", resp.ExpiryDate, past)
	}

	if _, err := svc.Resolve(ctx, "xyz789", "", nil); !errors.Is(err, ErrExpired) {
		t.Errorf("resolve: got %v want %v", err, ErrExpired)
	}
}

func TestCreateCustomCodeConflict(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	store.Seed(&models.ShortLink{ShortCode: "golang", OriginalURL: "https://go.dev", CreatedAt: testClock})

	_, err := svc.Create(ctx, models.CreateLinkRequest{
		LongURL:    "https://example.com",
		CustomCode: strptr("golang"),
	}, nil)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("error: got %v want %v", err, ErrConflict)
	}

	// A soft-deleted link releases its code.
	deleted := testClock.Add(-time.Hour)
	store.Seed(&models.ShortLink{ShortCode: "gopher", OriginalURL: "https://go.dev", CreatedAt: testClock, DeletedAt: &deleted})

	resp, err := svc.Create(ctx, models.CreateLinkRequest{
		LongURL:    "https://example.com",
		CustomCode: strptr("gopher"),
	}, nil)
	if err != nil {
		t.Fatalf("Create with released code returned error: %v", err)
	}
	if resp.ShortCode != "gopher" {
		t.Errorf("short code: got %q want %q", resp.ShortCode, "gopher")
	}
}

func TestResolveCountsVisits(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	link := &models.ShortLink{ShortCode: "abc123", OriginalURL: "https://example.com", CreatedAt: testClock}
	store.Seed(link)

	for want := int64(1); want <= 2; want++ {
		got, err := svc.Resolve(ctx, "abc123", "", nil)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if got.VisitCount != want {
			t.Errorf("visit count: got %d want %d", got.VisitCount, want)
		}
	}

	stored, ok := store.Get(link.ID)
	if !ok {
		t.Fatal("link missing from store")
	}
	if stored.VisitCount != 2 {
		t.Errorf("stored visit count: got %d want 2", stored.VisitCount)
	}
	if stored.LastAccessedAt == nil || !stored.LastAccessedAt.Equal(testClock) {
		t.Errorf("last accessed: got %v want %v", stored.LastAccessedAt, testClock)
	}
}

// captureCache holds SetJSON until released, then hands back the JSON it
// marshaled. Pins the ordering between the background cache write and the
// caller's own mutations.
type captureCache struct {
	release chan struct{}
	got     chan []byte
}

func (c *captureCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (c *captureCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	<-c.release
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.got <- b
	return nil
}

func (c *captureCache) Delete(ctx context.Context, key string) error { return nil }

func TestResolveCacheWriteSeesSnapshot(t *testing.T) {
	store := storetest.NewStore()
	cache := &captureCache{release: make(chan struct{}), got: make(chan []byte, 1)}
	svc := NewLinkService(store, cache, time.Minute, shortcode.New(6), config.ShortenerConfig{})
	svc.now = func() time.Time { return testClock }

	store.Seed(&models.ShortLink{ShortCode: "abc123", OriginalURL: "https://example.com", CreatedAt: testClock, VisitCount: 7})

	got, err := svc.Resolve(context.Background(), "abc123", "", nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.VisitCount != 8 {
		t.Fatalf("visit count: got %d want 8", got.VisitCount)
	}

	// The cache write marshals only now, after the visit increment above.
	// It must see the link as handed over, not the mutated struct.
	close(cache.release)
	select {
	case b := <-cache.got:
		var cached models.ShortLink
		if err := json.Unmarshal(b, &cached); err != nil {
			t.Fatalf("unmarshal cached link: %v", err)
		}
		if cached.VisitCount != 7 {
			t.Errorf("cached visit count: got %d want 7", cached.VisitCount)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cache write never happened")
	}
}

func TestResolveClassification(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	expired := testClock.Add(-time.Minute)
	store.Seed(&models.ShortLink{ShortCode: "oldone", OriginalURL: "https://example.com", CreatedAt: testClock.Add(-time.Hour), ExpiresAt: &expired})

	deleted := testClock.Add(-time.Minute)
	store.Seed(&models.ShortLink{ShortCode: "gone12", OriginalURL: "https://example.com", CreatedAt: testClock.Add(-time.Hour), DeletedAt: &deleted})

	if _, err := svc.Resolve(ctx, "oldone", "", nil); !errors.Is(err, ErrExpired) {
		t.Errorf("expired link: got %v want %v", err, ErrExpired)
	}
	if _, err := svc.Resolve(ctx, "gone12", "", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted link: got %v want %v", err, ErrNotFound)
	}
	if _, err := svc.Resolve(ctx, "nosuch", "", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing link: got %v want %v", err, ErrNotFound)
	}
	if _, err := svc.Resolve(ctx, "", "", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("empty code: got %v want %v", err, ErrValidation)
	}
}

func TestResolvePasswordProtected(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	store.Seed(&models.ShortLink{
		ShortCode:    "secret",
		OriginalURL:  "https://example.com",
		CreatedAt:    testClock,
		PasswordHash: strptr(string(hash)),
	})

	if _, err := svc.Resolve(ctx, "secret", "", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("missing password: got %v want %v", err, ErrValidation)
	}
	if _, err := svc.Resolve(ctx, "secret", "wrong", nil); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("wrong password: got %v want %v", err, ErrWrongPassword)
	}

	link, err := svc.Resolve(ctx, "secret", "hunter2", nil)
	if err != nil {
		t.Fatalf("correct password: got error %v", err)
	}
	if link.OriginalURL != "https://example.com" {
		t.Errorf("original URL: got %q", link.OriginalURL)
	}
}

func TestDeleteSoftDeletes(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	link := &models.ShortLink{ShortCode: "abc123", OriginalURL: "https://example.com", CreatedAt: testClock}
	store.Seed(link)

	if err := svc.Delete(ctx, "abc123", nil); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	stored, ok := store.Get(link.ID)
	if !ok {
		t.Fatal("soft delete removed the row")
	}
	if stored.DeletedAt == nil {
		t.Error("deleted_at not set")
	}

	if _, err := svc.Resolve(ctx, "abc123", "", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("resolve after delete: got %v want %v", err, ErrNotFound)
	}
	if err := svc.Delete(ctx, "abc123", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v want %v", err, ErrNotFound)
	}
}

func TestDeleteExpiredLink(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})

	expired := testClock.Add(-time.Minute)
	store.Seed(&models.ShortLink{ShortCode: "oldone", OriginalURL: "https://example.com", CreatedAt: testClock.Add(-time.Hour), ExpiresAt: &expired})

	if err := svc.Delete(context.Background(), "oldone", nil); !errors.Is(err, ErrExpired) {
		t.Errorf("delete expired: got %v want %v", err, ErrExpired)
	}
}

func TestOwnershipScoping(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	owner := &models.User{ID: uuid.New(), Tier: models.TierHobby}
	stranger := &models.User{ID: uuid.New(), Tier: models.TierHobby}

	ownerID := owner.ID
	store.Seed(&models.ShortLink{ShortCode: "owned1", OriginalURL: "https://example.com", CreatedAt: testClock, OwnerID: &ownerID})

	// A foreign-owned link is indistinguishable from absent.
	if err := svc.Delete(ctx, "owned1", stranger); !errors.Is(err, ErrNotFound) {
		t.Errorf("stranger delete: got %v want %v", err, ErrNotFound)
	}
	if err := svc.Delete(ctx, "owned1", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("anonymous delete: got %v want %v", err, ErrNotFound)
	}

	// Identified callers are scoped: someone else's link reads as absent.
	if _, err := svc.Resolve(ctx, "owned1", "", stranger); !errors.Is(err, ErrNotFound) {
		t.Errorf("stranger resolve: got %v want %v", err, ErrNotFound)
	}

	// Anonymous redirects resolve any live link.
	if _, err := svc.Resolve(ctx, "owned1", "", nil); err != nil {
		t.Errorf("anonymous resolve of owned link: got %v want nil", err)
	}

	if err := svc.Delete(ctx, "owned1", owner); err != nil {
		t.Errorf("owner delete: got %v want nil", err)
	}
}

func TestUpdateExpiryInPlace(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	created := testClock.Add(-24 * time.Hour)
	link := &models.ShortLink{ShortCode: "abc123", OriginalURL: "https://example.com", CreatedAt: created}
	store.Seed(link)

	newExpiry := testClock.Add(48 * time.Hour)
	resp, err := svc.UpdateExpiry(ctx, "abc123", models.UpdateExpiryRequest{ExpiryDate: &newExpiry}, nil)
	if err != nil {
		t.Fatalf("UpdateExpiry returned error: %v", err)
	}
	if resp.ShortCode != "abc123" {
		t.Errorf("short code: got %q want %q", resp.ShortCode, "abc123")
	}

	stored, _ := store.Get(link.ID)
	if stored.ID != link.ID {
		t.Error("record id changed")
	}
	if stored.ExpiresAt == nil || !stored.ExpiresAt.Equal(newExpiry) {
		t.Errorf("expiry: got %v want %v", stored.ExpiresAt, newExpiry)
	}
	if !stored.CreatedAt.Equal(created) {
		t.Errorf("created_at changed without the refresh knob: got %v want %v", stored.CreatedAt, created)
	}

	if _, err := svc.UpdateExpiry(ctx, "nosuch", models.UpdateExpiryRequest{}, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown code: got %v want %v", err, ErrNotFound)
	}
}

func TestUpdateExpiryRefreshesCreatedAt(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{RefreshCreatedAtOnExpiryUpdate: true})
	ctx := context.Background()

	link := &models.ShortLink{ShortCode: "abc123", OriginalURL: "https://example.com", CreatedAt: testClock.Add(-24 * time.Hour)}
	store.Seed(link)

	if _, err := svc.UpdateExpiry(ctx, "abc123", models.UpdateExpiryRequest{}, nil); err != nil {
		t.Fatalf("UpdateExpiry returned error: %v", err)
	}

	stored, _ := store.Get(link.ID)
	if !stored.CreatedAt.Equal(testClock) {
		t.Errorf("created_at: got %v want %v", stored.CreatedAt, testClock)
	}
	if stored.ExpiresAt != nil {
		t.Errorf("expiry: got %v want nil", stored.ExpiresAt)
	}
}

func TestCreateBulk(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	hobby := &models.User{ID: uuid.New(), Tier: models.TierHobby}
	enterprise := &models.User{ID: uuid.New(), Tier: models.TierEnterprise}

	if _, err := svc.CreateBulk(ctx, models.BulkCreateRequest{LongURLs: []string{"https://a.example"}}, nil); !errors.Is(err, ErrBulkNotAllowed) {
		t.Errorf("anonymous bulk: got %v want %v", err, ErrBulkNotAllowed)
	}
	if _, err := svc.CreateBulk(ctx, models.BulkCreateRequest{LongURLs: []string{"https://a.example"}}, hobby); !errors.Is(err, ErrBulkNotAllowed) {
		t.Errorf("hobby bulk: got %v want %v", err, ErrBulkNotAllowed)
	}
	if _, err := svc.CreateBulk(ctx, models.BulkCreateRequest{}, enterprise); !errors.Is(err, ErrValidation) {
		t.Errorf("empty bulk: got %v want %v", err, ErrValidation)
	}

	resp, err := svc.CreateBulk(ctx, models.BulkCreateRequest{
		LongURLs: []string{"https://a.example", "", "https://b.example"},
	}, enterprise)
	if err != nil {
		t.Fatalf("CreateBulk returned error: %v", err)
	}
	if len(resp.Batch) != 3 {
		t.Fatalf("batch size: got %d want 3", len(resp.Batch))
	}
	if resp.Batch[0].ShortCode == "" || resp.Batch[0].Error != "" {
		t.Errorf("first entry: %+v", resp.Batch[0])
	}
	if resp.Batch[1].ShortCode != "" || resp.Batch[1].Error == "" {
		t.Errorf("second entry should carry an error: %+v", resp.Batch[1])
	}
	if resp.Batch[2].ShortCode == "" {
		t.Errorf("third entry: %+v", resp.Batch[2])
	}
}

func TestCreateBulkHidesStoreDetail(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})

	enterprise := &models.User{ID: uuid.New(), Tier: models.TierEnterprise}
	store.Err = errors.New("dial tcp 10.0.0.5:5432: connection refused")

	resp, err := svc.CreateBulk(context.Background(), models.BulkCreateRequest{
		LongURLs: []string{"https://a.example"},
	}, enterprise)
	if err != nil {
		t.Fatalf("CreateBulk returned error: %v", err)
	}
	if got := resp.Batch[0].Error; got != ErrStoreUnavailable.Error() {
		t.Errorf("entry error: got %q want %q", got, ErrStoreUnavailable.Error())
	}
	if strings.Contains(resp.Batch[0].Error, "10.0.0.5") {
		t.Errorf("entry error leaks driver detail: %q", resp.Batch[0].Error)
	}
}

func TestCheckExistsScoped(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	owner := &models.User{ID: uuid.New(), Tier: models.TierHobby}
	ownerID := owner.ID
	store.Seed(&models.ShortLink{ShortCode: "owned1", OriginalURL: "https://example.com", CreatedAt: testClock, OwnerID: &ownerID})
	store.Seed(&models.ShortLink{ShortCode: "anon01", OriginalURL: "https://example.com", CreatedAt: testClock.Add(-time.Hour)})

	resp, err := svc.CheckExists(ctx, "https://example.com", owner)
	if err != nil {
		t.Fatalf("CheckExists returned error: %v", err)
	}
	if resp.ShortCode == nil || *resp.ShortCode != "owned1" {
		t.Errorf("owner lookup: got %v want owned1", resp.ShortCode)
	}

	resp, err = svc.CheckExists(ctx, "https://example.com", nil)
	if err != nil {
		t.Fatalf("CheckExists returned error: %v", err)
	}
	if resp.ShortCode == nil || *resp.ShortCode != "anon01" {
		t.Errorf("anonymous lookup: got %v want anon01", resp.ShortCode)
	}

	resp, err = svc.CheckExists(ctx, "https://other.example", nil)
	if err != nil {
		t.Fatalf("CheckExists returned error: %v", err)
	}
	if resp.ShortCode != nil {
		t.Errorf("unknown URL lookup: got %v want nil", *resp.ShortCode)
	}
}

func TestCheckCustomCodeExists(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	store.Seed(&models.ShortLink{ShortCode: "golang", OriginalURL: "https://go.dev", CreatedAt: testClock})

	exists, err := svc.CheckCustomCodeExists(ctx, "golang")
	if err != nil {
		t.Fatalf("CheckCustomCodeExists returned error: %v", err)
	}
	if !exists {
		t.Error("taken code reported free")
	}

	exists, err = svc.CheckCustomCodeExists(ctx, "nosuch")
	if err != nil {
		t.Fatalf("CheckCustomCodeExists returned error: %v", err)
	}
	if exists {
		t.Error("free code reported taken")
	}
}

func TestListAllSkipsDeleted(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})

	deleted := testClock.Add(-time.Minute)
	store.Seed(&models.ShortLink{ShortCode: "live01", OriginalURL: "https://a.example", CreatedAt: testClock})
	store.Seed(&models.ShortLink{ShortCode: "gone01", OriginalURL: "https://b.example", CreatedAt: testClock, DeletedAt: &deleted})

	links, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("links: got %d want 1", len(links))
	}
	if links[0].ShortCode != "live01" {
		t.Errorf("short code: got %q want live01", links[0].ShortCode)
	}
}

func TestPurgeDeletedHonorsRetention(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{DeletedRetention: 30 * 24 * time.Hour})

	old := testClock.Add(-31 * 24 * time.Hour)
	recent := testClock.Add(-time.Hour)
	store.Seed(&models.ShortLink{ShortCode: "old001", OriginalURL: "https://a.example", CreatedAt: old, DeletedAt: &old})
	store.Seed(&models.ShortLink{ShortCode: "new001", OriginalURL: "https://b.example", CreatedAt: recent, DeletedAt: &recent})

	purged, err := svc.PurgeDeleted(context.Background())
	if err != nil {
		t.Fatalf("PurgeDeleted returned error: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged: got %d want 1", purged)
	}
	if store.Len() != 1 {
		t.Errorf("rows remaining: got %d want 1", store.Len())
	}
}

func TestStoreUnavailable(t *testing.T) {
	store := storetest.NewStore()
	svc := newTestService(store, config.ShortenerConfig{})
	ctx := context.Background()

	store.Err = errors.New("connection refused")

	if _, err := svc.Create(ctx, models.CreateLinkRequest{LongURL: "https://example.com"}, nil); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Create: got %v want %v", err, ErrStoreUnavailable)
	}
	if _, err := svc.Resolve(ctx, "abc123", "", nil); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Resolve: got %v want %v", err, ErrStoreUnavailable)
	}
	if _, err := svc.ListAll(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("ListAll: got %v want %v", err, ErrStoreUnavailable)
	}
}

func TestValidationErrorsName(t *testing.T) {
	svc := newTestService(storetest.NewStore(), config.ShortenerConfig{})

	_, err := svc.Create(context.Background(), models.CreateLinkRequest{LongURL: ""}, nil)
	if err == nil || !strings.Contains(err.Error(), "long_url") {
		t.Errorf("validation error should name the field: %v", err)
	}
}
