package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/pos/cart/internal/session"
	"github.com/Alturino/pos/cart/pkg/request"
	"github.com/Alturino/pos/catalog"
	inErrors "github.com/Alturino/pos/internal/errors"
	inHttp "github.com/Alturino/pos/internal/http"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/otel"
)

type CartController struct {
	session  *session.Session
	catalog  *catalog.Catalog
	validate *validator.Validate
}

func AttachCartController(
	router *mux.Router,
	s *session.Session,
	cat *catalog.Catalog,
	validate *validator.Validate,
) {
	controller := CartController{session: s, catalog: cat, validate: validate}

	r := router.PathPrefix("/cart").Subrouter()
	r.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	r.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)
}

func (t CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	inHttp.WriteSuccess(c, w, "successfully found cart", map[string]interface{}{
		"cart": t.session.Cart(),
	})
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Trace().Msg("decoding requestbody")
	reqBody := request.AddItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Trace().Msg("validating request body")
	if err := t.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Trace().Msg("validated request body")

	span.SetAttributes(attribute.String(log.KeyProductID, reqBody.ProductId))
	logger = logger.With().
		Str(log.KeyProductID, reqBody.ProductId).
		Str(log.KeyProcess, "finding product").
		Logger()
	logger.Trace().Msgf("finding productId=%s", reqBody.ProductId)
	item, ok := t.catalog.FindByID(reqBody.ProductId)
	if !ok {
		err := fmt.Errorf("failed finding productId=%s with error=%w", reqBody.ProductId, inErrors.ErrProductNotFound)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusNotFound, err.Error())
		return
	}
	logger.Trace().Msgf("found productId=%s", reqBody.ProductId)

	logger = logger.With().Str(log.KeyProcess, "adding item to cart").Logger()
	c = logger.WithContext(c)
	t.session.AddItem(c, item)
	logger.Info().Msg("added item to cart")

	inHttp.WriteSuccess(c, w, "successfully added item to cart", map[string]interface{}{
		"cart": t.session.Cart(),
	})
}

func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Str(log.KeyProcess, "clearing cart").
		Logger()

	c = logger.WithContext(c)
	if err := t.session.Clear(c); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusConflict, err.Error())
		return
	}

	inHttp.WriteSuccess(c, w, "successfully cleared cart", map[string]interface{}{
		"cart": t.session.Cart(),
	})
}

func (t CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController Checkout").
		Str(log.KeyProcess, "submitting cart").
		Logger()

	logger.Info().Msg("submitting cart")
	c = logger.WithContext(c)
	result, err := t.session.Submit(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		switch {
		case errors.Is(err, inErrors.ErrSubmissionInFlight):
			inHttp.WriteFailed(c, w, http.StatusConflict, err.Error())
		case errors.Is(err, inErrors.ErrSubmission):
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     inHttp.StatusFailed,
				"statusCode": http.StatusBadGateway,
				"message":    "failed submitting sale, the cart was kept and can be submitted again",
				"data": map[string]interface{}{
					"error": err.Error(),
					"cart":  t.session.Cart(),
				},
			})
		default:
			inHttp.WriteFailed(c, w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if !result.Submitted {
		logger.Info().Msg("nothing to submit")
		inHttp.WriteSuccess(c, w, "nothing to submit", map[string]interface{}{
			"cart": t.session.Cart(),
		})
		return
	}
	logger.Info().Str(log.KeyTransactionID, result.Transaction.ID).Msg("submitted cart")

	inHttp.WriteSuccess(c, w, "successfully submitted sale", map[string]interface{}{
		"transaction": result.Transaction,
		"cart":        t.session.Cart(),
	})
}
