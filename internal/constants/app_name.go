package constants

const (
	APP_MAIN_CITYAT          = "main cityat"
	APP_CART_SERVICE         = "cart-service"
	APP_LOCATION_SERVICE     = "location-service"
	APP_NOTIFICATION_SERVICE = "notification-service"
	APP_USER_SERVICE         = "user-service"
	AUDIENCE_USER            = "audience-user"
)

const (
	CHANNEL_ORDER_PLACED = "order-placed"
)
