package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/Alturino/cityat/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_CART_SERVICE)
