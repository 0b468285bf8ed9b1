package request

// RemoteMessage is the payload delivered by the push channel.
type RemoteMessage struct {
	MessageID    *string             `json:"messageId"`
	Notification *RemoteNotification `json:"notification"`
	Data         map[string]string   `json:"data"`
}

type RemoteNotification struct {
	Title   *string        `json:"title"`
	Body    *string        `json:"body"`
	Android *AndroidConfig `json:"android"`
	IOS     *IOSConfig     `json:"ios"`
}

type AndroidConfig struct {
	ImageURL *string `json:"imageUrl"`
}

type IOSConfig struct {
	Attachments []IOSAttachment `json:"attachments"`
}

type IOSAttachment struct {
	URL *string `json:"url"`
}

type LocalNotification struct {
	Type    string            `validate:"required,oneof=order_update service_update promotional system payment reminder" json:"type"`
	Title   string            `validate:"required,max=200"                                                               json:"title"`
	Message string            `validate:"max=2000"                                                                       json:"message"`
	Data    map[string]string `json:"data"`
}
