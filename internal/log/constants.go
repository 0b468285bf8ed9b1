package log

const (
	KeyAppName          = "app"
	KeyRequestID        = "requestId"
	KeyTraceID          = "traceId"
	KeySpanID           = "spanId"
	KeyProcess          = "process"
	KeyTag              = "tag"
	KeyRequest          = "request"
	KeyRequestHost      = "host"
	KeyRequestIp        = "requesterIP"
	KeyRequestMethod    = "requestMethod"
	KeyRequestURI       = "requestURI"
	KeyRequestURL       = "requestURL"
	KeyConfig           = "config"
	KeyCacheKey         = "cacheKey"
	KeyUserID           = "userId"
	KeyCartItemID       = "cartItemId"
	KeyCartItemQuantity = "cartItemQuantity"
	KeyProductID        = "productId"
	KeyStoreID          = "storeId"
	KeyStoreSwitched    = "storeSwitched"
	KeyOrder            = "order"
	KeyCity             = "city"
	KeyCityID           = "cityId"
	KeyCityCount        = "cityCount"
	KeySearch           = "search"
	KeyLocation         = "location"
	KeyNotificationID   = "notificationId"
	KeyNotificationType = "notificationType"
	KeyUnreadCount      = "unreadCount"
	KeyAttempt          = "attempt"
)
