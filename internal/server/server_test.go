package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	analysisservice "github.com/happytownlabs/happytown/internal/analysis/service"
	"github.com/happytownlabs/happytown/internal/clock"
	complexdomain "github.com/happytownlabs/happytown/internal/complex/domain"
	complexrepository "github.com/happytownlabs/happytown/internal/complex/repository"
	"github.com/happytownlabs/happytown/internal/config"
	householddomain "github.com/happytownlabs/happytown/internal/household/domain"
	householdrepository "github.com/happytownlabs/happytown/internal/household/repository"
	ingestservice "github.com/happytownlabs/happytown/internal/ingest/service"
	paymentdomain "github.com/happytownlabs/happytown/internal/payment/domain"
	paymentrepository "github.com/happytownlabs/happytown/internal/payment/repository"
	posterdomain "github.com/happytownlabs/happytown/internal/poster/domain"
	posterrepository "github.com/happytownlabs/happytown/internal/poster/repository"
	rankdomain "github.com/happytownlabs/happytown/internal/rank/domain"
	rankrepository "github.com/happytownlabs/happytown/internal/rank/repository"
	"github.com/happytownlabs/happytown/internal/seed"
	uploaddomain "github.com/happytownlabs/happytown/internal/upload/domain"
	uploadrepository "github.com/happytownlabs/happytown/internal/upload/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&complexdomain.Building{},
		&complexdomain.Entrance{},
		&complexdomain.Apartment{},
		&householddomain.Household{},
		&paymentdomain.PaymentRecord{},
		&rankdomain.RankConfiguration{},
		&uploaddomain.Entry{},
		&posterdomain.Content{},
	))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)
	require.NoError(t, seed.ProvisionComplex(db, node))

	log := zap.NewNop()
	complexRepo := complexrepository.NewRepository(db)
	uploadRepo := uploadrepository.NewRepository(db)
	paymentRepo := paymentrepository.NewRepository(db)
	rankRepo := rankrepository.NewRepository(db)

	srv := NewServer(ServerParam{
		Engine: gin.New(),
		Log:    log,
		Cfg:    config.Config{},
		GenID:  node,

		IngestSvc: ingestservice.NewService(ingestservice.ServiceParam{
			DB:          db,
			Log:         log,
			GenID:       node,
			Clock:       clock.Fixed{T: time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)},
			ComplexRepo: complexRepo,
			UploadRepo:  uploadRepo,
		}),
		AnalysisSvc: analysisservice.NewService(analysisservice.ServiceParam{
			Log:         log,
			PaymentRepo: paymentRepo,
			RankRepo:    rankRepo,
		}),
		ComplexRepo:   complexRepo,
		HouseholdRepo: householdrepository.NewRepository(db),
		PaymentRepo:   paymentRepo,
		UploadRepo:    uploadRepo,
		RankRepo:      rankRepo,
		PosterRepo:    posterrepository.NewRepository(db),
	})
	srv.RegisterAPIRoutes()
	return srv, db
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		// UseNumber keeps snowflake ids exact; float64 would truncate them.
		dec := json.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
		dec.UseNumber()
		require.NoError(t, dec.Decode(&decoded))
	}
	return rec, decoded
}

func dataList(t *testing.T, decoded map[string]any) []any {
	t.Helper()
	list, ok := decoded["data"].([]any)
	require.True(t, ok, "expected a data list, got %v", decoded)
	return list
}

func TestListBuildingsAndEntrances(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, decoded := doJSON(t, srv, http.MethodGet, "/api/buildings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	buildings := dataList(t, decoded)
	require.Len(t, buildings, 4)

	first, ok := buildings[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "71", first["building_number"])

	// snowflake ids marshal as JSON strings
	rec, decoded = doJSON(t, srv, http.MethodGet, "/api/buildings/"+first["id"].(string)+"/entrances", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, dataList(t, decoded), 2)
}

func TestLatestMonthEndpoint(t *testing.T) {
	srv, db := newTestServer(t)

	rec, decoded := doJSON(t, srv, http.MethodGet, "/api/months/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decoded["data"])

	seedOneRecord(t, db, srv.genID, 150000)

	rec, decoded = doJSON(t, srv, http.MethodGet, "/api/months/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-09", decoded["data"])
}

func TestAboveThresholdReport(t *testing.T) {
	srv, db := newTestServer(t)
	seedOneRecord(t, db, srv.genID, 150000)

	rec, decoded := doJSON(t, srv, http.MethodGet, "/api/reports/above-threshold?threshold=100000&month=2024-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	infos := dataList(t, decoded)
	require.Len(t, infos, 1)
	info := infos[0].(map[string]any)
	assert.Equal(t, "Дунд эрсдэлтэй", info["rank_category"])

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/reports/above-threshold?threshold=200000&month=2024-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/reports/above-threshold", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHouseholdHistoryUnknownHousehold(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/households/123456789/history", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPosterContentLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, decoded := doJSON(t, srv, http.MethodPost, "/api/poster-contents", map[string]any{
		"kind":          "text",
		"content":       "Шинэ зарлал",
		"display_order": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decoded["data"].(map[string]any)
	id := created["id"].(string)

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/poster-contents", map[string]any{
		"kind":    "video",
		"content": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	active := false
	rec, decoded = doJSON(t, srv, http.MethodPatch, "/api/poster-contents/"+id, updatePosterContentRequest{Active: &active})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decoded["data"].(map[string]any)["is_active"])

	// Deactivated content drops out of the default listing but stays in the
	// full catalog.
	rec, decoded = doJSON(t, srv, http.MethodGet, "/api/poster-contents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, dataList(t, decoded), 2)

	rec, decoded = doJSON(t, srv, http.MethodGet, "/api/poster-contents?include_inactive=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, dataList(t, decoded), 3)
}

// seedOneRecord creates one household at 71-1-1 with a September balance.
func seedOneRecord(t *testing.T, db *gorm.DB, node *snowflake.Node, balance int64) {
	t.Helper()
	ctx := context.Background()

	apartment, err := complexrepository.NewRepository(db).FindApartmentByAddress(ctx,
		complexdomain.Address{BuildingNumber: "71", EntranceNumber: 1, DoorNumber: 1})
	require.NoError(t, err)
	require.NotNil(t, apartment)

	household := &householddomain.Household{
		ID:            node.Generate(),
		HouseholdName: "Bat",
		ApartmentID:   apartment.ID,
	}
	require.NoError(t, householdrepository.NewRepository(db).Insert(ctx, household))

	require.NoError(t, paymentrepository.NewRepository(db).Insert(ctx, &paymentdomain.PaymentRecord{
		ID:                 node.Generate(),
		HouseholdID:        household.ID,
		RecordMonth:        time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		OutstandingBalance: decimal.NewFromInt(balance),
		UploadDate:         time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
	}))
}
