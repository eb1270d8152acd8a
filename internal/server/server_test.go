package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/data"
	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/logger"
	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/pricing"
)

type failingProvider struct{}

func (failingProvider) Spot(context.Context, string) (float64, error) {
	return 0, data.ErrNoSpot
}
func (failingProvider) Secondary() data.SpotProvider { return nil }
func (failingProvider) Name() string                 { return "failing" }

// ServerSuite drives the HTTP surface end to end through httptest.
type ServerSuite struct {
	suite.Suite
	engine *gin.Engine
}

func (s *ServerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *ServerSuite) SetupTest() {
	s.engine = NewEngine(NewHandler(data.NewSyntheticSpotProvider(1)))
}

func (s *ServerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *ServerSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	require.Contains(s.T(), w.Body.String(), "healthy")
}

func (s *ServerSuite) TestRequestLogAttributes() {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbosity(int(logger.Info))
	defer logger.SetOutput(os.Stderr)

	s.do(http.MethodGet, "/health", nil)
	out := buf.String()
	require.Contains(s.T(), out, "msg=request")
	require.Contains(s.T(), out, "method=GET")
	require.Contains(s.T(), out, "path=/health")
	require.Contains(s.T(), out, "status=200")
}

func (s *ServerSuite) TestPrice() {
	w := s.do(http.MethodPost, "/api/v1/pricing/option/price",
		pricing.Params{Spot: 100, Strike: 100, Maturity: 1, Volatility: 0.2, Rate: 0.05, Type: pricing.Put})
	require.Equal(s.T(), http.StatusOK, w.Code)

	var resp PriceResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.InDelta(s.T(), 5.5735, resp.Price, 1e-3)
	require.Equal(s.T(), 0.0, resp.Intrinsic)
}

func (s *ServerSuite) TestPriceInvalidParameter() {
	w := s.do(http.MethodPost, "/api/v1/pricing/option/price",
		pricing.Params{Spot: 0, Strike: 100, Maturity: 1, Volatility: 0.2, Type: pricing.Call})
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Contains(s.T(), w.Body.String(), "spot")
}

func (s *ServerSuite) TestPriceMalformedBody() {
	w := s.raw("/api/v1/pricing/option/price", "{")
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerSuite) raw(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *ServerSuite) TestPriceAcceptsOptionTypeLabels() {
	for _, label := range []string{"Call", "C", "Put", "P"} {
		w := s.raw("/api/v1/pricing/option/price",
			`{"spot":100,"strike":100,"maturity":1,"volatility":0.2,"rate":0.05,"type":"`+label+`"}`)
		require.Equal(s.T(), http.StatusOK, w.Code, label)
	}

	w := s.raw("/api/v1/pricing/option/price",
		`{"spot":100,"strike":100,"maturity":1,"volatility":0.2,"rate":0.05,"type":"straddle"}`)
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerSuite) TestGrid() {
	w := s.do(http.MethodPost, "/api/v1/pricing/grid", GridRequest{
		Params: pricing.Params{Strike: 100, Maturity: 1, Rate: 0.05, Type: pricing.Call},
		Grid:   pricing.GridSpec{SpotMin: 50, SpotMax: 150, VolMin: 0.1, VolMax: 0.5, Points: 5},
	})
	require.Equal(s.T(), http.StatusOK, w.Code)

	var g pricing.Grid
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &g))
	require.Len(s.T(), g.Matrix, 5)
	require.Equal(s.T(), []float64{50, 75, 100, 125, 150}, g.SpotAxis)

	want, err := pricing.Price(pricing.Params{Spot: 150, Strike: 100, Maturity: 1, Volatility: 0.5, Rate: 0.05, Type: pricing.Call})
	require.NoError(s.T(), err)
	require.InDelta(s.T(), want, g.Matrix[4][4], 1e-12)
}

func (s *ServerSuite) TestGridInvalidSpec() {
	w := s.do(http.MethodPost, "/api/v1/pricing/grid", GridRequest{
		Params: pricing.Params{Strike: 100, Maturity: 1, Rate: 0.05, Type: pricing.Call},
		Grid:   pricing.GridSpec{SpotMin: 50, SpotMax: 150, VolMin: 0.1, VolMax: 0.5, Points: 1},
	})
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	require.Contains(s.T(), w.Body.String(), pricing.ErrInvalidGridSpec.Error())
}

func (s *ServerSuite) TestGridTooLarge() {
	w := s.do(http.MethodPost, "/api/v1/pricing/grid", GridRequest{
		Params: pricing.Params{Strike: 100, Maturity: 1, Rate: 0.05, Type: pricing.Call},
		Grid:   pricing.GridSpec{SpotMin: 50, SpotMax: 150, VolMin: 0.1, VolMax: 0.5, Points: MaxGridPoints + 1},
	})
	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ServerSuite) TestPayoff() {
	w := s.do(http.MethodPost, "/api/v1/pricing/payoff", PayoffRequest{
		Params: pricing.Params{Spot: 100, Strike: 100, Maturity: 1, Volatility: 0.2, Rate: 0.05, Type: pricing.Call},
		Points: 20,
	})
	require.Equal(s.T(), http.StatusOK, w.Code)

	var d pricing.PayoffDiagram
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &d))
	require.Len(s.T(), d.Long, 20)
	require.Nil(s.T(), d.MaxProfit)
}

func (s *ServerSuite) TestSpot() {
	w := s.do(http.MethodGet, "/api/v1/spot/aapl", nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var body struct {
		Ticker   string  `json:"ticker"`
		Spot     float64 `json:"spot"`
		Provider string  `json:"provider"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(s.T(), "AAPL", body.Ticker)
	require.Equal(s.T(), "synthetic", body.Provider)
	require.Greater(s.T(), body.Spot, 0.0)
}

func (s *ServerSuite) TestSpotProviderFailure() {
	s.engine = NewEngine(NewHandler(failingProvider{}))
	w := s.do(http.MethodGet, "/api/v1/spot/aapl", nil)
	require.Equal(s.T(), http.StatusBadGateway, w.Code)
}

func (s *ServerSuite) TestSpotWithoutProvider() {
	s.engine = NewEngine(NewHandler(nil))
	w := s.do(http.MethodGet, "/api/v1/spot/aapl", nil)
	require.Equal(s.T(), http.StatusServiceUnavailable, w.Code)
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func TestAbortPricingMapsUnknownErrorsTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	abortPricing(c, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
