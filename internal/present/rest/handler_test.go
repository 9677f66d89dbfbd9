package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/lostfound/internal/domain"
	"github.com/campuskit/lostfound/internal/present/rest/middleware"
	"github.com/campuskit/lostfound/internal/usecase"
)

// --- mocks ---

type mockPostingRepo struct {
	pending map[string]domain.Posting
	history []domain.ReviewRecord
	item    *domain.ManagedItem
}

func newMockPostingRepo() *mockPostingRepo {
	return &mockPostingRepo{pending: map[string]domain.Posting{}}
}

func (m *mockPostingRepo) Add(ctx context.Context, p domain.Posting) error {
	m.pending[p.ID] = p
	return nil
}

func (m *mockPostingRepo) GetPending(ctx context.Context, id string) (domain.Posting, error) {
	p, ok := m.pending[id]
	if !ok {
		return domain.Posting{}, domain.NotFoundError{Resource: "posting"}
	}
	return p, nil
}

func (m *mockPostingRepo) ListPending(ctx context.Context, kind domain.Kind) ([]domain.Posting, error) {
	var out []domain.Posting
	for _, p := range m.pending {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostingRepo) ListHistory(ctx context.Context) ([]domain.ReviewRecord, error) {
	return m.history, nil
}

func (m *mockPostingRepo) Conclude(ctx context.Context, postingID string, rec domain.ReviewRecord, item *domain.ManagedItem) error {
	delete(m.pending, postingID)
	m.history = append(m.history, rec)
	m.item = item
	return nil
}

type mockItemRepo struct {
	items map[string]domain.ManagedItem
}

func (m *mockItemRepo) Get(ctx context.Context, id string) (domain.ManagedItem, error) {
	item, ok := m.items[id]
	if !ok {
		return domain.ManagedItem{}, domain.NotFoundError{Resource: "item"}
	}
	return item, nil
}

func (m *mockItemRepo) List(ctx context.Context, kind domain.Kind) ([]domain.ManagedItem, error) {
	var out []domain.ManagedItem
	for _, item := range m.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockItemRepo) ListAll(ctx context.Context) ([]domain.ManagedItem, error) {
	var out []domain.ManagedItem
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockItemRepo) Update(ctx context.Context, item domain.ManagedItem, expectedVersion int64) (domain.ManagedItem, error) {
	stored, ok := m.items[item.ID]
	if !ok {
		return domain.ManagedItem{}, domain.NotFoundError{Resource: "item"}
	}
	if stored.Version != expectedVersion {
		return domain.ManagedItem{}, domain.ConflictError{Resource: "item"}
	}
	item.Version = expectedVersion + 1
	m.items[item.ID] = item
	return item, nil
}

type mockConfigRepo struct {
	cfg domain.SystemConfig
}

func (m *mockConfigRepo) Load(ctx context.Context) (domain.SystemConfig, error) {
	return m.cfg, nil
}

func (m *mockConfigRepo) Save(ctx context.Context, cfg domain.SystemConfig, expectedVersion int64) (domain.SystemConfig, error) {
	if m.cfg.Version != expectedVersion {
		return domain.SystemConfig{}, domain.ConflictError{Resource: "config"}
	}
	cfg.Version = expectedVersion + 1
	m.cfg = cfg
	return cfg, nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(ctx context.Context, publisher string, limit int, now time.Time) (bool, error) {
	return true, nil
}

// --- setup ---

type fixture struct {
	e        *echo.Echo
	postings *mockPostingRepo
	items    *mockItemRepo
}

func newFixture() *fixture {
	postings := newMockPostingRepo()
	items := &mockItemRepo{items: map[string]domain.ManagedItem{}}
	configRepo := &mockConfigRepo{cfg: domain.DefaultConfig()}

	configUC := usecase.NewConfigUsecase(configRepo, nil)
	reviewUC := usecase.NewReviewUsecase(postings, configUC, allowAllLimiter{}, nil)
	itemUC := usecase.NewItemUsecase(items, configUC, nil)
	statsUC := usecase.NewStatsUsecase(items, nil)
	accountUC := usecase.NewAccountUsecase(&noopAccountRepo{})
	announcementUC := usecase.NewAnnouncementUsecase(&noopAnnouncementRepo{})

	h := NewHandler(reviewUC, itemUC, configUC, statsUC, accountUC, announcementUC, nil)

	e := echo.New()
	staff := middleware.NewStaffMiddleware()
	e.Use(staff.IdentifyStaff)
	h.RegisterRoutes(e)

	return &fixture{e: e, postings: postings, items: items}
}

type noopAccountRepo struct{}

func (noopAccountRepo) List(ctx context.Context, query usecase.AccountQuery) ([]domain.Account, int64, error) {
	return nil, 0, nil
}
func (noopAccountRepo) Get(ctx context.Context, id int64) (domain.Account, error) {
	return domain.Account{}, domain.NotFoundError{Resource: "account"}
}
func (noopAccountRepo) Create(ctx context.Context, account domain.Account, passwordHash string) (int64, error) {
	return 1, nil
}
func (noopAccountRepo) Update(ctx context.Context, account domain.Account, expectedVersion int64) (domain.Account, error) {
	return account, nil
}
func (noopAccountRepo) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

type noopAnnouncementRepo struct{}

func (noopAnnouncementRepo) List(ctx context.Context, status domain.AnnouncementStatus) ([]domain.Announcement, error) {
	return nil, nil
}
func (noopAnnouncementRepo) Get(ctx context.Context, id int64) (domain.Announcement, error) {
	return domain.Announcement{}, domain.NotFoundError{Resource: "announcement"}
}
func (noopAnnouncementRepo) Create(ctx context.Context, a domain.Announcement) (int64, error) {
	return 1, nil
}
func (noopAnnouncementRepo) Update(ctx context.Context, a domain.Announcement, expectedVersion int64) (domain.Announcement, error) {
	return a, nil
}
func (noopAnnouncementRepo) Delete(ctx context.Context, id int64) error { return nil }

func doJSON(e *echo.Echo, method, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	return res
}

var staffHeaders = map[string]string{domain.StaffIdHeader: "admin-1"}

// --- tests ---

func TestHandlePublishAndApprove(t *testing.T) {
	f := newFixture()

	res := doJSON(f.e, http.MethodPost, "/api/v1/publish", domain.Posting{
		Kind:         domain.KindLost,
		ItemType:     "证件",
		ItemName:     "学生卡",
		Location:     "图书馆",
		EventTime:    time.Now().UTC(),
		ContactName:  "李明",
		ContactPhone: "13800138000",
	}, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var posting domain.Posting
	if err := json.Unmarshal(res.Body.Bytes(), &posting); err != nil {
		t.Fatalf("decode posting: %v", err)
	}
	if posting.ID == "" {
		t.Fatalf("expected assigned id")
	}

	res = doJSON(f.e, http.MethodPost, "/api/v1/review/"+posting.ID+"/approve", nil, staffHeaders)
	if res.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if f.postings.item == nil {
		t.Fatalf("expected managed item created")
	}
}

func TestHandlePublishInvalidPhone(t *testing.T) {
	f := newFixture()

	res := doJSON(f.e, http.MethodPost, "/api/v1/publish", domain.Posting{
		Kind:         domain.KindLost,
		ItemType:     "证件",
		ItemName:     "学生卡",
		Location:     "图书馆",
		ContactName:  "李明",
		ContactPhone: "123",
	}, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestHandleReviewRequiresStaff(t *testing.T) {
	f := newFixture()

	res := doJSON(f.e, http.MethodPost, "/api/v1/review/p1/approve", nil, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without staff header, got %d", res.Code)
	}
}

func TestHandleReviewPendingBadKind(t *testing.T) {
	f := newFixture()

	res := doJSON(f.e, http.MethodGet, "/api/v1/review/pending?kind=stolen", nil, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestHandleRejectMissingPosting(t *testing.T) {
	f := newFixture()

	res := doJSON(f.e, http.MethodPost, "/api/v1/review/missing/reject", map[string]string{"reason": "虚假信息"}, staffHeaders)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestHandleItemClaimedConflict(t *testing.T) {
	f := newFixture()
	f.items.items["i1"] = domain.ManagedItem{
		ID:      "i1",
		Kind:    domain.KindFound,
		Status:  domain.StatusUnmatched,
		Version: 3,
	}

	res := doJSON(f.e, http.MethodPost, "/api/v1/items/i1/claimed", map[string]int64{"version": 1}, staffHeaders)
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", res.Code)
	}

	res = doJSON(f.e, http.MethodPost, "/api/v1/items/i1/claimed", map[string]int64{"version": 3}, staffHeaders)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
}

func TestHandleItemArchiveGuarded(t *testing.T) {
	f := newFixture()
	f.items.items["i1"] = domain.ManagedItem{
		ID:         "i1",
		Kind:       domain.KindFound,
		Status:     domain.StatusUnmatched,
		ApprovedAt: time.Now().UTC().AddDate(0, 0, -5),
		Version:    1,
	}

	res := doJSON(f.e, http.MethodPost, "/api/v1/items/i1/archive", map[string]any{"method": "学校保管", "version": 1}, staffHeaders)
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 inside claim window, got %d", res.Code)
	}
}

func TestHandleItemGetIncludesGuard(t *testing.T) {
	f := newFixture()
	f.items.items["i1"] = domain.ManagedItem{
		ID:         "i1",
		Kind:       domain.KindFound,
		Status:     domain.StatusUnmatched,
		ApprovedAt: time.Now().UTC().AddDate(0, 0, -1),
		Version:    1,
	}

	res := doJSON(f.e, http.MethodGet, "/api/v1/items/i1", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var detail usecase.ItemDetail
	if err := json.Unmarshal(res.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.ArchiveEligible {
		t.Fatalf("expected ineligible inside window")
	}
	if !strings.Contains(detail.ArchiveGuard, "more days") {
		t.Fatalf("unexpected guard: %q", detail.ArchiveGuard)
	}
}

func TestHandleConfigRoundTrip(t *testing.T) {
	f := newFixture()

	res := doJSON(f.e, http.MethodPut, "/api/v1/system/item-types", map[string]string{"value": "钥匙"}, staffHeaders)
	if res.Code != http.StatusOK {
		t.Fatalf("add type: expected 200, got %d: %s", res.Code, res.Body.String())
	}

	res = doJSON(f.e, http.MethodGet, "/api/v1/system/config", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("get config: expected 200, got %d", res.Code)
	}

	var cfg domain.SystemConfig
	if err := json.Unmarshal(res.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	found := false
	for _, name := range cfg.ItemTypes {
		if name == "钥匙" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected new item type in snapshot, got %v", cfg.ItemTypes)
	}
}

func TestHandleSetClaimValidityDaysOutOfRange(t *testing.T) {
	f := newFixture()

	res := doJSON(f.e, http.MethodPut, "/api/v1/system/claim-validity-days", map[string]int{"value": 366}, staffHeaders)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestHandleStatistics(t *testing.T) {
	f := newFixture()
	f.items.items["i1"] = domain.ManagedItem{ID: "i1", Kind: domain.KindLost, ItemType: "证件", Status: domain.StatusUnmatched}
	f.items.items["i2"] = domain.ManagedItem{ID: "i2", Kind: domain.KindLost, ItemType: "电子", Status: domain.StatusMatched, ClaimCount: 1}

	res := doJSON(f.e, http.MethodGet, "/api/v1/statistics?dimension=status", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var rows []domain.StatsRow
	if err := json.Unmarshal(res.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(rows) == 0 || rows[0].Dimension != domain.TotalDimension {
		t.Fatalf("expected total row first, got %v", rows)
	}
}

func TestHandleStatisticsExport(t *testing.T) {
	f := newFixture()

	res := doJSON(f.e, http.MethodGet, "/api/v1/statistics/export?dimension=type", nil, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.HasPrefix(res.Body.String(), "\uFEFF") {
		t.Fatalf("expected BOM in export")
	}
	if !strings.Contains(res.Header().Get(echo.HeaderContentDisposition), "attachment") {
		t.Fatalf("expected attachment disposition")
	}
}

func TestHandleStatisticsBadDimension(t *testing.T) {
	f := newFixture()

	res := doJSON(f.e, http.MethodGet, "/api/v1/statistics?dimension=campus", nil, nil)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}
