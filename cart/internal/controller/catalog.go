package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/pos/catalog"
	inHttp "github.com/Alturino/pos/internal/http"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/otel"
)

type CatalogController struct {
	catalog *catalog.Catalog
}

func AttachCatalogController(router *mux.Router, cat *catalog.Catalog) {
	controller := CatalogController{catalog: cat}

	router.HandleFunc("/products", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("/categories", controller.FindCategories).Methods(http.MethodGet)
}

func (t CatalogController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController FindProducts").
		Logger()

	category := r.URL.Query().Get("category")
	if category == "" {
		inHttp.WriteSuccess(c, w, "successfully found products", map[string]interface{}{
			"products": t.catalog.Items(),
		})
		return
	}

	if !catalog.Category(category).Valid() {
		err := fmt.Errorf("unknown category=%s", category)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}

	inHttp.WriteSuccess(c, w, "successfully found products", map[string]interface{}{
		"products": t.catalog.ByCategory(catalog.Category(category)),
	})
}

func (t CatalogController) FindCategories(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindCategories")
	defer span.End()

	inHttp.WriteSuccess(c, w, "successfully found categories", map[string]interface{}{
		"categories": catalog.Categories,
	})
}
