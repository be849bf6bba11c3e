package constants

import (
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	AppKey    contextKey = "app"
	PoolKey   contextKey = "pool"
	TxKey     contextKey = "tx"
	UserKey   contextKey = "user"
	LoggerKey contextKey = "logger"
	ParamsKey contextKey = "params"

	RequestStart contextKey = "requestStart"
)

// Validate is the shared validator instance used by all DTOs.
var Validate = validator.New(validator.WithRequiredStructEnabled())
