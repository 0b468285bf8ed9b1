package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/cityat/cart/internal/otel"
	"github.com/Alturino/cityat/cart/internal/state"
	"github.com/Alturino/cityat/cart/pkg/request"
	"github.com/Alturino/cityat/cart/pkg/response"
	"github.com/Alturino/cityat/internal"
	"github.com/Alturino/cityat/internal/constants"
	inErrors "github.com/Alturino/cityat/internal/errors"
	inHttp "github.com/Alturino/cityat/internal/http"
	"github.com/Alturino/cityat/internal/infra"
	"github.com/Alturino/cityat/internal/log"
	inOtel "github.com/Alturino/cityat/internal/otel"
	notificationRequest "github.com/Alturino/cityat/notification/pkg/request"
)

const keyCartPrefix = "carts:"

// checkoutClaimTTL outlives the order request timeout, after which an
// abandoned claim is taken over by the next checkout.
const checkoutClaimTTL = time.Minute

type CartService struct {
	carts      *infra.Snapshots[state.Cart]
	events     *redis.Client
	httpClient *http.Client
	orderURL   string
}

func NewCartService(
	cache *redis.Client,
	ttl time.Duration,
	httpClient *http.Client,
	orderURL string,
) CartService {
	return CartService{
		carts:      infra.NewSnapshots(cache, ttl, state.NewCart),
		events:     cache,
		httpClient: httpClient,
		orderURL:   orderURL,
	}
}

func cartKey(userID uuid.UUID) string {
	return keyCartPrefix + userID.String()
}

func (svc CartService) FindCart(c context.Context, userID uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCart").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	cart, err := svc.carts.Load(logger.WithContext(c), cartKey(userID))
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Int64(log.KeyCartItemQuantity, cart.ItemCount).Msg("found cart")

	return cart.Response(userID), nil
}

// AddCartItem adds the product to the user's cart. storeSwitched reports that
// the cart held items from another store which were dropped.
func (svc CartService) AddCartItem(
	c context.Context,
	userID uuid.UUID,
	param request.AddCartItem,
) (cart response.Cart, storeSwitched bool, err error) {
	c, span := otel.Tracer.Start(c, "CartService AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddCartItem").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProductID, param.Product.ID).
		Str(log.KeyStoreID, param.Product.StoreID).
		Int32(log.KeyCartItemQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "adding cart item").Logger()
	logger.Info().Msg("adding cart item")
	product := state.ProductFromRequest(param.Product)
	updated, err := svc.carts.Update(
		logger.WithContext(c),
		cartKey(userID),
		func(current *state.Cart) error {
			storeSwitched = current.AddItem(product, param.Quantity)
			return nil
		},
	)
	if err != nil {
		err = fmt.Errorf("failed adding cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, false, err
	}
	span.SetAttributes(attribute.Bool(log.KeyStoreSwitched, storeSwitched))
	logger.Info().Bool(log.KeyStoreSwitched, storeSwitched).Msg("added cart item")

	return updated.Response(userID), storeSwitched, nil
}

func (svc CartService) UpdateCartItemQuantity(
	c context.Context,
	userID uuid.UUID,
	itemID uuid.UUID,
	quantity int32,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateCartItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateCartItemQuantity").
		Int32(log.KeyCartItemQuantity, quantity).
		Logger()

	return svc.updateItem(logger.WithContext(c), span, userID, itemID, func(cart *state.Cart) {
		cart.UpdateQuantity(itemID, quantity)
	})
}

func (svc CartService) UpdateSpecialInstructions(
	c context.Context,
	userID uuid.UUID,
	itemID uuid.UUID,
	instructions string,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateSpecialInstructions")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateSpecialInstructions").
		Logger()

	return svc.updateItem(logger.WithContext(c), span, userID, itemID, func(cart *state.Cart) {
		cart.SetSpecialInstructions(itemID, instructions)
	})
}

func (svc CartService) RemoveCartItem(
	c context.Context,
	userID uuid.UUID,
	itemID uuid.UUID,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveCartItem").
		Logger()

	return svc.updateItem(logger.WithContext(c), span, userID, itemID, func(cart *state.Cart) {
		cart.RemoveItem(itemID)
	})
}

// updateItem applies mutate to the cart, failing with ErrCartItemNotFound
// when itemID is not in the cart.
func (svc CartService) updateItem(
	c context.Context,
	span trace.Span,
	userID uuid.UUID,
	itemID uuid.UUID,
	mutate func(cart *state.Cart),
) (response.Cart, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCartItemID, itemID.String()).
		Str(log.KeyProcess, "updating cart item").
		Logger()

	logger.Info().Msg("updating cart item")
	updated, err := svc.carts.Update(
		logger.WithContext(c),
		cartKey(userID),
		func(cart *state.Cart) error {
			if _, ok := cart.Item(itemID); !ok {
				return fmt.Errorf("itemId=%s %w", itemID.String(), inErrors.ErrCartItemNotFound)
			}
			mutate(cart)
			return nil
		},
	)
	if err != nil {
		err = fmt.Errorf("failed updating cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("updated cart item")

	return updated.Response(userID), nil
}

func (svc CartService) ClearCart(c context.Context, userID uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	if err := svc.carts.Delete(logger.WithContext(c), cartKey(userID)); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("cleared cart")

	return nil
}

// Checkout claims the cart, places an order for it with the order service and
// then takes the ordered quantities off the cart. Units added while the order
// was in flight stay in the cart. A second checkout while the claim is held
// fails with ErrCheckoutInProgress.
func (svc CartService) Checkout(c context.Context, userID uuid.UUID) (response.Checkout, error) {
	c, span := otel.Tracer.Start(c, "CartService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Checkout").
		Str(log.KeyUserID, userID.String()).
		Logger()

	orderID := uuid.New()
	order := request.CreateOrder{}
	logger = logger.With().
		Str(log.KeyProcess, "claiming cart").
		Str(log.KeyOrder, orderID.String()).
		Logger()
	logger.Info().Msg("claiming cart")
	_, err := svc.carts.Update(logger.WithContext(c), cartKey(userID), func(current *state.Cart) error {
		if current.IsEmpty() {
			return inErrors.ErrCartEmpty
		}
		if !current.ClaimCheckout(orderID, time.Now(), checkoutClaimTTL) {
			return fmt.Errorf("pendingOrderId=%s %w", current.PendingOrder.ID.String(), inErrors.ErrCheckoutInProgress)
		}
		order = current.Order(orderID, userID)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed claiming cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("claimed cart")

	logger = logger.With().Str(log.KeyProcess, "creating order").Logger()
	logger.Info().Msg("creating order")
	if err = svc.createOrder(c, order); err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.releaseCheckout(logger.WithContext(context.WithoutCancel(c)), userID, orderID)
		return response.Checkout{}, err
	}
	logger.Info().Msg("created order")

	logger = logger.With().Str(log.KeyProcess, "deducting ordered items").Logger()
	logger.Info().Msg("deducting ordered items")
	_, err = svc.carts.Update(logger.WithContext(c), cartKey(userID), func(current *state.Cart) error {
		for _, item := range order.Items {
			current.Deduct(item.ID, item.Quantity)
		}
		current.ReleaseCheckout(orderID)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed deducting ordered items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("deducted ordered items")

	event := notificationRequest.OrderPlaced{
		OrderID:     order.ID,
		UserID:      userID,
		StoreID:     order.StoreID,
		TotalAmount: order.TotalAmount,
		ItemCount:   order.ItemCount,
	}
	logger = logger.With().Str(log.KeyProcess, "publishing order placed").Logger()
	logger.Info().Msg("publishing order placed")
	if err = svc.publishOrderPlaced(c, event); err != nil {
		// the order exists already, a lost notification does not undo it
		err = fmt.Errorf("failed publishing order placed with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("published order placed")
	}

	return response.Checkout{
		OrderID:     order.ID,
		StoreID:     order.StoreID,
		TotalAmount: order.TotalAmount,
		ItemCount:   order.ItemCount,
	}, nil
}

// releaseCheckout drops the claim of a failed checkout so the user can retry
// before it goes stale.
func (svc CartService) releaseCheckout(c context.Context, userID uuid.UUID, orderID uuid.UUID) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "releasing cart").Logger()

	logger.Info().Msg("releasing cart")
	_, err := svc.carts.Update(logger.WithContext(c), cartKey(userID), func(current *state.Cart) error {
		current.ReleaseCheckout(orderID)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed releasing cart with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("released cart")
}

func (svc CartService) publishOrderPlaced(
	c context.Context,
	event notificationRequest.OrderPlaced,
) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed marshaling order placed with error=%w", err)
	}
	return svc.events.Publish(c, constants.CHANNEL_ORDER_PLACED, payload).Err()
}

func (svc CartService) createOrder(c context.Context, order request.CreateOrder) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed marshaling order with error=%w", err)
	}

	req, err := http.NewRequestWithContext(c, http.MethodPost, svc.orderURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed creating request with error=%w", err)
	}
	req.Header.Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, log.RequestIDFromContext(c))
	if token := internal.JwtTokenFromContext(c); token != nil {
		req.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, inHttp.VALUE_BEARER_PREFIX+token.Raw)
	}

	resp, err := svc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed sending order with error=%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("order service responded status=%d with error=%w", resp.StatusCode, inErrors.ErrCheckoutRejected)
	}
	return nil
}
