package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/pos/internal/errors"
	inHttp "github.com/Alturino/pos/internal/http"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/otel"
	"github.com/Alturino/pos/report/internal/board"
	"github.com/Alturino/pos/report/internal/service"
	"github.com/Alturino/pos/report/pkg/request"
)

const messageNoData = "no data for this date"

type ReportController struct {
	service  *service.ReportService
	board    *board.Board
	validate *validator.Validate
}

func AttachReportController(
	router *mux.Router,
	svc *service.ReportService,
	b *board.Board,
	validate *validator.Validate,
) {
	controller := ReportController{service: svc, board: b, validate: validate}

	router.HandleFunc("/reports/{date}", controller.FindDayReport).Methods(http.MethodGet)

	r := router.PathPrefix("/board").Subrouter()
	r.HandleFunc("", controller.FindBoard).Methods(http.MethodGet)
	r.HandleFunc("/date", controller.SelectDate).Methods(http.MethodPut)
	r.HandleFunc("/shift", controller.ShiftDate).Methods(http.MethodPost)
	r.HandleFunc("/refresh", controller.RefreshBoard).Methods(http.MethodPost)
}

func (t ReportController) FindDayReport(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReportController FindDayReport")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReportController FindDayReport").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing date").Logger()
	pathValues := mux.Vars(r)
	date, err := civil.ParseDate(pathValues["date"])
	if err != nil {
		err = fmt.Errorf("failed parsing date=%s with error=%w: %w", pathValues["date"], inErrors.ErrInvalidDate, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger = logger.With().Str(log.KeyDate, date.String()).Logger()
	logger.Trace().Msg("parsed date")

	logger = logger.With().Str(log.KeyProcess, "finding day report").Logger()
	logger.Info().Msg("finding day report")
	c = logger.WithContext(c)
	report, err := t.service.FindDayReport(c, date)
	message := "successfully found day report"
	if err != nil {
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		message = messageNoData
	}
	logger.Info().Int(log.KeyOrderCount, report.OrderCount).Msg("found day report")

	inHttp.WriteSuccess(c, w, message, map[string]interface{}{
		"report":              report,
		"average_order_value": report.AverageOrderValue(),
		"no_data":             err != nil || report.OrderCount == 0,
	})
}

func (t ReportController) FindBoard(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReportController FindBoard")
	defer span.End()

	inHttp.WriteSuccess(c, w, "successfully found board", map[string]interface{}{
		"board": t.board.State(),
	})
}

func (t ReportController) RefreshBoard(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReportController RefreshBoard")
	defer span.End()

	inHttp.WriteSuccess(c, w, "successfully refreshed board", map[string]interface{}{
		"board": t.board.Refresh(c),
	})
}

func (t ReportController) SelectDate(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReportController SelectDate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReportController SelectDate").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	reqBody := request.SelectDate{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	if err := t.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w: %w", inErrors.ErrInvalidDate, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := civil.ParseDate(reqBody.Date)
	if err != nil {
		err = fmt.Errorf("failed parsing date=%s with error=%w: %w", reqBody.Date, inErrors.ErrInvalidDate, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}

	logger = logger.With().Str(log.KeyDate, date.String()).Str(log.KeyProcess, "selecting date").Logger()
	c = logger.WithContext(c)
	if _, err = t.board.Select(c, date); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}

	inHttp.WriteSuccess(c, w, "successfully selected date", map[string]interface{}{
		"board": t.board.Refresh(c),
	})
}

func (t ReportController) ShiftDate(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReportController ShiftDate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReportController ShiftDate").
		Str(log.KeyProcess, "parsing days").
		Logger()

	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		err = fmt.Errorf("failed parsing days=%s with error=%w", r.URL.Query().Get("days"), err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}

	c = logger.WithContext(c)
	t.board.Shift(c, days)
	inHttp.WriteSuccess(c, w, "successfully shifted date", map[string]interface{}{
		"board": t.board.Refresh(c),
	})
}
