package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prism/internal/dimension"
	"prism/internal/pipeline"
	"prism/internal/report"
	"prism/internal/silver"
	"prism/internal/staging"
)

var testSigningKey = []byte("test-signing-key")

func str(s string) *string     { return &s }
func i64(v int64) *int64       { return &v }
func f64(v float64) *float64   { return &v }
func date(s string) *time.Time { t, _ := time.Parse("2006-01-02", s); return &t }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	snapshot := staging.Snapshot{
		Customers: []staging.CustomerRow{
			{Ordinal: 1, CustomerID: i64(1001), CustomerKey: str("AW00001001"), FirstName: str("Ada"), LastName: str("Byron"), MaritalStatus: str("S"), Gender: str("F"), CreateDate: date("2023-01-01")},
		},
		Products: []staging.ProductRow{
			{Ordinal: 1, ProductID: i64(1), ProductKey: str("CO-RF-FR-R92B-58"), Name: str("Road Frame"), Cost: f64(100), Line: str("R"), StartDate: date("2022-01-01")},
		},
		Sales: []staging.SalesRow{
			{Ordinal: 1, OrderNumber: str("SO1"), ProductKey: str("FR-R92B-58"), CustomerID: i64(1001), OrderDate: i64(20230501), Sales: f64(200), Quantity: i64(2), Price: f64(100)},
		},
	}

	gold := dimension.NewMemory()
	runner, err := pipeline.New(staging.NewMemory(snapshot), silver.NewMemory(), gold, dimension.NewAssembler(nil))
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	handler := New(runner, runner.Status(), gold, report.NewCache(nil), logger)
	server := httptest.NewServer(NewRouter(handler, testSigningKey, logger))
	t.Cleanup(server.Close)
	return server
}

func jsonDecode(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

func mintToken(t *testing.T, key []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestTriggerRunRequiresAuth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/v1/runs", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTriggerRunRejectsForeignToken(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/runs", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, []byte("other-key")))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTriggerRunAndReadBack(t *testing.T) {
	server := newTestServer(t)

	body := strings.NewReader(`{"reference_time":"2024-03-01T06:00:00Z"}`)
	req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/runs", body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSigningKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var triggered triggerRunResponse
	require.NoError(t, jsonDecode(resp, &triggered))
	assert.NotEqual(t, uuid.Nil, triggered.RunID)
	assert.Equal(t, 1, triggered.Rows["fact_sales"])

	statusResp, err := http.Get(server.URL + "/v1/runs/" + triggered.RunID.String())
	require.NoError(t, err)
	defer statusResp.Body.Close()
	require.Equal(t, http.StatusOK, statusResp.StatusCode)

	var status pipeline.RunStatus
	require.NoError(t, jsonDecode(statusResp, &status))
	assert.Equal(t, pipeline.StateCompleted, status.State)

	customersResp, err := http.Get(server.URL + "/v1/customers")
	require.NoError(t, err)
	defer customersResp.Body.Close()
	require.Equal(t, http.StatusOK, customersResp.StatusCode)

	var customers []customerResponse
	require.NoError(t, jsonDecode(customersResp, &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, int64(1001), customers[0].CustomerID)
	assert.Equal(t, "Female", customers[0].Gender)

	salesResp, err := http.Get(server.URL + "/v1/sales")
	require.NoError(t, err)
	defer salesResp.Body.Close()

	var sales []saleResponse
	require.NoError(t, jsonDecode(salesResp, &sales))
	require.Len(t, sales, 1)
	require.NotNil(t, sales[0].CustomerKey)
	assert.Equal(t, int64(1), *sales[0].CustomerKey)
}

func TestRunStatusValidation(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/runs/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	missing, err := http.Get(server.URL + "/v1/runs/" + uuid.NewString())
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestReportsBeforeFirstRunAreNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/reports/revenue")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRevenueReportAfterRun(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/runs", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSigningKey))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	revenueResp, err := http.Get(server.URL + "/v1/reports/revenue")
	require.NoError(t, err)
	defer revenueResp.Body.Close()
	require.Equal(t, http.StatusOK, revenueResp.StatusCode)

	var revenue report.RevenueReport
	require.NoError(t, jsonDecode(revenueResp, &revenue))
	require.Equal(t, []string{"2023-05"}, revenue.Periods)
	assert.InDelta(t, 200, revenue.Revenue[0], 1e-9)

	segResp, err := http.Get(server.URL + "/v1/reports/customer-segments")
	require.NoError(t, err)
	defer segResp.Body.Close()
	require.Equal(t, http.StatusOK, segResp.StatusCode)

	var segments []report.CustomerSegment
	require.NoError(t, jsonDecode(segResp, &segments))
	require.Len(t, segments, 1)
	assert.Equal(t, report.SegmentNew, segments[0].Segment)
}

func TestReadsBeforeFirstRunAreEmpty(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/v1/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []productResponse
	require.NoError(t, jsonDecode(resp, &products))
	assert.Empty(t, products)
}
