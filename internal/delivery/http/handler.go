package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/easyseas/pointtracker/internal/app"
	"github.com/easyseas/pointtracker/internal/domain"
	applog "github.com/easyseas/pointtracker/internal/logger"
	"github.com/easyseas/pointtracker/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	state *app.State
}

// NewHandler creates a new HTTP handler
func NewHandler(state *app.State) *Handler {
	return &Handler{state: state}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "easyseas-pointtracker",
		"version": "1.0.0",
	})
}

// log returns the request-scoped logger
func (h *Handler) log(c *gin.Context) zerolog.Logger {
	return applog.FromContextOr(c.Request.Context(), h.state.Logger)
}

// respondError maps domain errors onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnknownDataKey):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownProgram):
		status = http.StatusNotFound
	}

	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		ctxLog := h.log(c)
		ctxLog.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bindJSON decodes the request body, reporting failures as bad requests
func (h *Handler) bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return false
	}
	return true
}

// writeCSV streams a CSV attachment produced by write
func (h *Handler) writeCSV(c *gin.Context, filename string, write func(io.Writer) error) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	if err := write(c.Writer); err != nil {
		ctxLog := h.log(c)
		ctxLog.Error().Err(err).Str("file", filename).Msg("failed to write csv")
		_ = c.Error(err)
	}
}

// PutData handles PUT /api/v1/data/:key
func (h *Handler) PutData(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: reading body: %v", domain.ErrInvalidRequest, err))
		return
	}
	if err := h.state.Data.Put(c.Request.Context(), c.Param("key"), body); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetData handles GET /api/v1/data/:key
func (h *Handler) GetData(c *gin.Context) {
	raw, err := h.state.Data.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

type recordsRequest struct {
	Records []domain.FinancialRecord `json:"records"`
}

// ImportFinancials handles POST /api/v1/financials/import
func (h *Handler) ImportFinancials(c *gin.Context) {
	var req recordsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	imported, err := h.state.Data.ImportFinancials(c.Request.Context(), req.Records)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": imported, "count": len(imported)})
}

// NormalizeFinancials handles POST /api/v1/financials/normalize
func (h *Handler) NormalizeFinancials(c *gin.Context) {
	var req recordsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	out := make([]domain.FinancialRecord, len(req.Records))
	for i, r := range req.Records {
		out[i] = usecase.NormalizeRecord(r)
	}
	c.JSON(http.StatusOK, gin.H{"records": out, "count": len(out)})
}

// SummarizeFinancials handles POST /api/v1/financials/summary
func (h *Handler) SummarizeFinancials(c *gin.Context) {
	var req recordsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, usecase.SummarizeFinancials(req.Records))
}

// StoredFinancialSummary handles GET /api/v1/financials/summary
func (h *Handler) StoredFinancialSummary(c *gin.Context) {
	c.JSON(http.StatusOK, usecase.SummarizeFinancials(h.state.Data.Financials(c.Request.Context())))
}

// ClassifyFinancial handles GET /api/v1/financials/classify?text=
func (h *Handler) ClassifyFinancial(c *gin.Context) {
	text := c.Query("text")
	payment, _ := usecase.NormalizePaymentMethod(text)
	department, _ := usecase.NormalizeDepartment(text)
	category, _ := usecase.NormalizeCategory(text)
	refs := usecase.ExtractRefOrFolio(text)

	c.JSON(http.StatusOK, gin.H{
		"paymentMethod": payment,
		"department":    department,
		"category":      category,
		"refNumber":     refs.RefNumber,
		"folioNumber":   refs.FolioNumber,
	})
}

// ParseCertificate handles GET /api/v1/certificates/:code
func (h *Handler) ParseCertificate(c *gin.Context) {
	parsed := usecase.ParseCertCode(c.Param("code"))
	if parsed == nil {
		h.respondError(c, fmt.Errorf("%w: %q is not a certificate code", domain.ErrInvalidRequest, c.Param("code")))
		return
	}
	c.JSON(http.StatusOK, parsed)
}

type resolveRequest struct {
	Points float64                `json:"points"`
	Tiers  []domain.ThresholdTier `json:"tiers,omitempty"`
}

// ResolveCertificates handles POST /api/v1/certificates/resolve
func (h *Handler) ResolveCertificates(c *gin.Context) {
	var req resolveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.state.Certificates.Resolve(req.Points, req.Tiers))
}

// SuggestCertificate handles POST /api/v1/certificates/suggest
func (h *Handler) SuggestCertificate(c *gin.Context) {
	var req resolveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.state.Certificates.ResolveCertificate(req.Points))
}

// ComputeTotals handles POST /api/v1/fve/totals
func (h *Handler) ComputeTotals(c *gin.Context) {
	var req domain.TotalsInput
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.state.Certificates.Totals(req))
}

// LinkCruise handles POST /api/v1/fve/links
func (h *Handler) LinkCruise(c *gin.Context) {
	var req domain.LinkCruiseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	link, err := h.state.FVE.LinkCruise(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "link": link})
}

// SaveEvaluation handles PUT /api/v1/fve/links/:cruiseId
func (h *Handler) SaveEvaluation(c *gin.Context) {
	var req domain.EvaluationUpdate
	if !h.bindJSON(c, &req) {
		return
	}
	link, err := h.state.FVE.SaveEvaluation(c.Request.Context(), c.Param("cruiseId"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "link": link})
}

// GetLink handles GET /api/v1/fve/links/:cruiseId
func (h *Handler) GetLink(c *gin.Context) {
	link, err := h.state.FVE.GetLink(c.Request.Context(), c.Param("cruiseId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// ListLinks handles GET /api/v1/fve/links
func (h *Handler) ListLinks(c *gin.Context) {
	links := h.state.FVE.ListLinks(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"links": links, "count": len(links)})
}

// ExportLinks handles GET /api/v1/fve/links.csv, optionally filtered by ?cruiseId=
func (h *Handler) ExportLinks(c *gin.Context) {
	ids := c.QueryArray("cruiseId")
	filename := "fve_links.csv"
	if len(ids) == 1 {
		filename = fmt.Sprintf("fve_%s.csv", ids[0])
	}
	h.writeCSV(c, filename, func(w io.Writer) error {
		return h.state.FVE.ExportCSV(c.Request.Context(), w, ids...)
	})
}

// StreamFveEvents handles GET /api/v1/fve/events as a server-sent event stream.
// The stream ends when the client goes away or the server shuts down.
func (h *Handler) StreamFveEvents(c *gin.Context) {
	sub := h.state.Bus.Subscribe()
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sub.C:
			if !ok {
				return
			}
			c.SSEvent("fve", evt)
			c.Writer.Flush()
		}
	}
}

// LoyaltyProgress handles POST /api/v1/loyalty/progress
func (h *Handler) LoyaltyProgress(c *gin.Context) {
	var req domain.LoyaltyProgressRequest
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.state.Loyalty.Progress(req))
}

// StoredLoyaltyProgress handles GET /api/v1/loyalty/progress from stored bookings
func (h *Handler) StoredLoyaltyProgress(c *gin.Context) {
	completed, upcoming := h.state.Data.Bookings(c.Request.Context())
	c.JSON(http.StatusOK, h.state.Loyalty.ProgressFromRecords(completed, upcoming))
}

// TierProgress handles GET /api/v1/loyalty/tiers/:program?points=
func (h *Handler) TierProgress(c *gin.Context) {
	points, err := strconv.Atoi(c.DefaultQuery("points", "0"))
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: points must be an integer", domain.ErrInvalidRequest))
		return
	}
	progress, err := h.state.Loyalty.ProgressToNextTier(c.Param("program"), points)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// EstimateRetail handles POST /api/v1/estimates/retail; ?explain=true adds the arithmetic
func (h *Handler) EstimateRetail(c *gin.Context) {
	var req domain.RetailEstimateInput
	if !h.bindJSON(c, &req) {
		return
	}
	est := usecase.EstimateRetail(req, h.state.Catalog.Retail)
	if c.Query("explain") == "true" {
		est.Explanation = usecase.ExplainEstimate(req, h.state.Catalog.Retail)
	}
	c.JSON(http.StatusOK, est)
}

// EstimateCruise handles POST /api/v1/estimates/cruise
func (h *Handler) EstimateCruise(c *gin.Context) {
	var req domain.CruiseEstimateInput
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.state.Estimator.EstimateCruise(c.Request.Context(), req))
}

type extractRequest struct {
	Packets []domain.Packet `json:"packets"`
}

// ExtractOffers handles POST /api/v1/scrape/extract
func (h *Handler) ExtractOffers(c *gin.Context) {
	var req extractRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.state.Scrape.Extract(c.Request.Context(), req.Packets)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportScrapedOffers handles GET /api/v1/scrape/offers.csv
func (h *Handler) ExportScrapedOffers(c *gin.Context) {
	h.writeCSV(c, "offers.csv", func(w io.Writer) error {
		return h.state.Scrape.ExportOffers(c.Request.Context(), w)
	})
}

// ExportScrapedCruises handles GET /api/v1/scrape/cruises.csv
func (h *Handler) ExportScrapedCruises(c *gin.Context) {
	h.writeCSV(c, "cruises.csv", func(w io.Writer) error {
		return h.state.Scrape.ExportCruises(c.Request.Context(), w)
	})
}

// ContextIntelligence handles GET /api/v1/intelligence/context
func (h *Handler) ContextIntelligence(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Intelligence.Compute(c.Request.Context()))
}
