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

	"github.com/Alturino/cityat/internal"
	inHttp "github.com/Alturino/cityat/internal/http"
	"github.com/Alturino/cityat/internal/log"
	inOtel "github.com/Alturino/cityat/internal/otel"
	"github.com/Alturino/cityat/notification/internal/otel"
	"github.com/Alturino/cityat/notification/internal/service"
	"github.com/Alturino/cityat/notification/pkg/request"
	"github.com/Alturino/cityat/notification/pkg/response"
)

type NotificationController struct {
	service  *service.NotificationService
	validate *validator.Validate
}

func AttachNotificationController(
	mux *mux.Router,
	service *service.NotificationService,
	validate *validator.Validate,
) {
	controller := NotificationController{service: service, validate: validate}

	router := mux.PathPrefix("/notifications").Subrouter()
	router.HandleFunc("", controller.FindNotifications).Methods(http.MethodGet)
	router.HandleFunc("", controller.CreateLocalNotification).Methods(http.MethodPost)
	router.HandleFunc("/push", controller.ReceivePush).Methods(http.MethodPost)
	router.HandleFunc("/read", controller.MarkAllAsRead).Methods(http.MethodPut)
	router.HandleFunc("/{notificationId}/read", controller.MarkAsRead).Methods(http.MethodPut)
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

func decodeBody(
	c context.Context,
	w http.ResponseWriter,
	r *http.Request,
	span trace.Span,
	logger zerolog.Logger,
	dst interface{},
) bool {
	logger.Info().Msg("decoding request body")
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, err)
		return false
	}
	logger.Info().Msg("decoded request body")
	return true
}

func userIdFromToken(
	c context.Context,
	w http.ResponseWriter,
	span trace.Span,
	logger zerolog.Logger,
) (uuid.UUID, bool) {
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return uuid.Nil, false
	}
	return userId, true
}

func (t NotificationController) FindNotifications(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController FindNotifications")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationController FindNotifications").
		Str(log.KeyProcess, "getting userId from jwtToken").
		Logger()
	userId, ok := userIdFromToken(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "finding notifications").
		Logger()
	inbox, err := t.service.FindNotifications(logger.WithContext(c), userId)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}

	inHttp.WriteSuccess(c, w, "successfully found notifications", map[string]interface{}{
		"inbox": inbox,
	})
}

func (t NotificationController) CreateLocalNotification(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController CreateLocalNotification")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationController CreateLocalNotification").
		Str(log.KeyProcess, "decoding requestbody").
		Logger()

	reqBody := request.LocalNotification{}
	if !decodeBody(c, w, r, span, logger, &reqBody) {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	if err := t.validate.StructCtx(c, reqBody); err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed validating request body with error=%w", err))
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, ok := userIdFromToken(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "creating local notification").
		Logger()
	notification, err := t.service.CreateLocalNotification(logger.WithContext(c), userId, reqBody)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}

	t.writeNotification(c, w, "successfully created notification", notification)
}

func (t NotificationController) ReceivePush(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController ReceivePush")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationController ReceivePush").
		Str(log.KeyProcess, "decoding requestbody").
		Logger()

	reqBody := request.RemoteMessage{}
	if !decodeBody(c, w, r, span, logger, &reqBody) {
		return
	}

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, ok := userIdFromToken(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "receiving push notification").
		Logger()
	notification, err := t.service.ReceivePush(logger.WithContext(c), userId, reqBody)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}

	t.writeNotification(c, w, "successfully received notification", notification)
}

func (t NotificationController) writeNotification(
	c context.Context,
	w http.ResponseWriter,
	message string,
	notification response.Notification,
) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     inHttp.STATUS_SUCCESS,
		"statusCode": http.StatusCreated,
		"message":    message,
		"data":       map[string]interface{}{"notification": notification},
	})
}

func (t NotificationController) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController MarkAsRead")
	defer span.End()

	notificationId := mux.Vars(r)["notificationId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationController MarkAsRead").
		Str(log.KeyNotificationID, notificationId).
		Str(log.KeyProcess, "getting userId from jwtToken").
		Logger()
	userId, ok := userIdFromToken(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "marking notification as read").
		Logger()
	inbox, err := t.service.MarkAsRead(logger.WithContext(c), userId, notificationId)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}

	inHttp.WriteSuccess(c, w, "successfully marked notification as read", map[string]interface{}{
		"inbox": inbox,
	})
}

func (t NotificationController) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController MarkAllAsRead")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationController MarkAllAsRead").
		Str(log.KeyProcess, "getting userId from jwtToken").
		Logger()
	userId, ok := userIdFromToken(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "marking all notifications as read").
		Logger()
	inbox, err := t.service.MarkAllAsRead(logger.WithContext(c), userId)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}

	inHttp.WriteSuccess(c, w, "successfully marked all notifications as read", map[string]interface{}{
		"inbox": inbox,
	})
}
