package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/cityat/cart/internal/otel"
	"github.com/Alturino/cityat/cart/internal/service"
	"github.com/Alturino/cityat/cart/pkg/request"
	"github.com/Alturino/cityat/internal"
	inHttp "github.com/Alturino/cityat/internal/http"
	"github.com/Alturino/cityat/internal/log"
	inOtel "github.com/Alturino/cityat/internal/otel"
)

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
}

func AttachCartController(
	mux *mux.Router,
	service *service.CartService,
	validate *validator.Validate,
) {
	controller := CartController{service: service, validate: validate}

	router := mux.PathPrefix("/carts").Subrouter()
	router.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	router.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)
	router.HandleFunc("/items", controller.AddCartItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{itemId}", controller.UpdateCartItemQuantity).
		Methods(http.MethodPut)
	router.HandleFunc("/items/{itemId}/instructions", controller.UpdateSpecialInstructions).
		Methods(http.MethodPut)
	router.HandleFunc("/items/{itemId}", controller.RemoveCartItem).Methods(http.MethodDelete)
}

func fail(
	c context.Context,
	w http.ResponseWriter,
	span trace.Span,
	logger zerolog.Logger,
	err error,
) {
	inOtel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	inHttp.WriteError(c, w, inHttp.StatusCode(err), err)
}

func itemIdFromPath(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["itemId"]
	itemId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing itemId=%s with error=%w", raw, err)
	}
	return itemId, nil
}

func (t CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController FindCart").Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := t.service.FindCart(logger.WithContext(c), userId)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found cart")

	inHttp.WriteSuccess(c, w, "successfully found cart", map[string]interface{}{
		"cart": cart,
	})
}

func (t CartController) AddCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController AddCartItem").Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.AddCartItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	if err := t.validate.StructCtx(c, reqBody); err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed validating request body with error=%w", err))
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "adding cart item").Logger()
	logger.Info().Msg("adding cart item")
	cart, storeSwitched, err := t.service.AddCartItem(logger.WithContext(c), userId, reqBody)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Bool(log.KeyStoreSwitched, storeSwitched).Msg("added cart item")

	inHttp.WriteSuccess(c, w, "successfully added cart item", map[string]interface{}{
		"cart":          cart,
		"storeSwitched": storeSwitched,
	})
}

func (t CartController) UpdateCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateCartItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateCartItemQuantity").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing itemId").Logger()
	itemId, err := itemIdFromPath(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(log.KeyCartItemID, itemId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	reqBody := request.UpdateCartItemQuantity{}
	if err = json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "updating cart item quantity").Logger()
	logger.Info().Msg("updating cart item quantity")
	cart, err := t.service.UpdateCartItemQuantity(logger.WithContext(c), userId, itemId, reqBody.Quantity)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("updated cart item quantity")

	inHttp.WriteSuccess(c, w, "successfully updated cart item quantity", map[string]interface{}{
		"cart": cart,
	})
}

func (t CartController) UpdateSpecialInstructions(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateSpecialInstructions")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateSpecialInstructions").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing itemId").Logger()
	itemId, err := itemIdFromPath(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(log.KeyCartItemID, itemId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	reqBody := request.UpdateSpecialInstructions{}
	if err = json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	if err = t.validate.StructCtx(c, reqBody); err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed validating request body with error=%w", err))
		return
	}

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "updating special instructions").Logger()
	logger.Info().Msg("updating special instructions")
	cart, err := t.service.UpdateSpecialInstructions(
		logger.WithContext(c),
		userId,
		itemId,
		reqBody.SpecialInstructions,
	)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("updated special instructions")

	inHttp.WriteSuccess(c, w, "successfully updated special instructions", map[string]interface{}{
		"cart": cart,
	})
}

func (t CartController) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController RemoveCartItem").Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing itemId").Logger()
	itemId, err := itemIdFromPath(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(log.KeyCartItemID, itemId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "removing cart item").Logger()
	logger.Info().Msg("removing cart item")
	cart, err := t.service.RemoveCartItem(logger.WithContext(c), userId, itemId)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("removed cart item")

	inHttp.WriteSuccess(c, w, "successfully removed cart item", map[string]interface{}{
		"cart": cart,
	})
}

func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController ClearCart").Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	if err = t.service.ClearCart(logger.WithContext(c), userId); err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteSuccess(c, w, "successfully cleared cart", map[string]interface{}{})
}

func (t CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "CartController Checkout").Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "checking out cart").Logger()
	logger.Info().Msg("checking out cart")
	checkout, err := t.service.Checkout(logger.WithContext(c), userId)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Str(log.KeyOrder, checkout.OrderID.String()).Msg("checked out cart")

	inHttp.WriteSuccess(c, w, "successfully checked out cart", map[string]interface{}{
		"checkout": checkout,
	})
}
