package api

import (
	"net/http"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/analytics"
	"StockPulse/internal/services/features"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// Defaults fill request fields left empty.
type Defaults struct {
	Start time.Time
	Split time.Time
}

// PipelineEchoHandler serves datasets and analyses over HTTP.
type PipelineEchoHandler struct {
	logger   *xlogger.Logger
	preparer *usecase.Preparer
	analyzer *usecase.Analyzer
	defaults Defaults
}

func NewPipelineEchoHandler(logger *xlogger.Logger, preparer *usecase.Preparer, analyzer *usecase.Analyzer, defaults Defaults) *PipelineEchoHandler {
	return &PipelineEchoHandler{logger: logger, preparer: preparer, analyzer: analyzer, defaults: defaults}
}

func (h *PipelineEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dataset", h.Dataset)
	g.GET("/impact", h.Impact)
	g.GET("/event-study", h.EventStudy)
}

func (h *PipelineEchoHandler) Dataset(c echo.Context) error {
	req := &models.DatasetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.Invalid(c, verr)
	}
	start := util.ParseDateDefault(req.Start, h.defaults.Start)
	split := util.ParseDateDefault(req.Split, h.defaults.Split)
	if !split.After(start) {
		return xhttp.Fail(c, xhttp.BadRequestError("split must be after start").WithParam("split", util.FormatDate(split)))
	}

	ds, err := h.preparer.Prepare(c.Request().Context(), start, split)
	if err != nil {
		h.logger.Error("dataset usecase error", xlogger.Error(err))
		return xhttp.Fail(c, mapError(err))
	}
	return xhttp.OK(c, toDatasetResponse(h.preparer.Symbol(), ds))
}

func (h *PipelineEchoHandler) Impact(c echo.Context) error {
	req := &models.ImpactRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.Invalid(c, verr)
	}
	res, err := h.analyzer.Impact(c.Request().Context(), util.ParseDateDefault(req.Start, h.defaults.Start))
	if err != nil {
		h.logger.Error("impact usecase error", xlogger.Error(err))
		return xhttp.Fail(c, mapError(err))
	}
	return xhttp.OK(c, res)
}

func (h *PipelineEchoHandler) EventStudy(c echo.Context) error {
	req := &models.EventStudyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.Invalid(c, verr)
	}
	res, err := h.analyzer.EventStudy(c.Request().Context(), util.ParseDateDefault(req.Start, h.defaults.Start), req.Window)
	if err != nil {
		h.logger.Error("event study usecase error", xlogger.Error(err))
		return xhttp.Fail(c, mapError(err))
	}
	return xhttp.OK(c, res)
}

var errorRules = []xhttp.ErrorRule{
	{
		Targets: []error{
			features.ErrInsufficientData,
			features.ErrEmptyTrain,
			features.ErrEmptyFeatures,
			analytics.ErrTooFewBars,
			analytics.ErrNoEstimationWindow,
			analytics.ErrNoEventWindows,
			analytics.ErrBadWindow,
		},
		Status: http.StatusBadRequest,
	},
	{Targets: []error{usecase.ErrSourceUnavailable}, Status: http.StatusServiceUnavailable, Message: "data source unavailable"},
}

func mapError(err error) *xhttp.AppError {
	return xhttp.Classify(err, errorRules...)
}

func toDatasetResponse(symbol string, ds *models.Dataset) *models.DatasetResponse {
	return &models.DatasetResponse{
		Symbol:     symbol,
		Cutoff:     util.FormatDate(ds.Cutoff),
		Columns:    ds.Columns,
		TrainDates: formatDates(ds.TrainDates),
		TestDates:  formatDates(ds.TestDates),
		XTrain:     nonNilMatrix(ds.XTrain),
		XTest:      nonNilMatrix(ds.XTest),
		YTrain:     nonNilBools(ds.YTrain),
		YTest:      nonNilBools(ds.YTest),
	}
}

func formatDates(ds []time.Time) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = util.FormatDate(d)
	}
	return out
}

func nonNilMatrix(x [][]float64) [][]float64 {
	if x == nil {
		return [][]float64{}
	}
	return x
}

func nonNilBools(x []bool) []bool {
	if x == nil {
		return []bool{}
	}
	return x
}
