package flow

import (
	"fmt"

	"villacarmen/models"
	"villacarmen/utils"

	"go.uber.org/zap"
)

// FlowError ties a collaborator failure class to the reply the customer
// sees. The code goes to the logs; the message goes to the chat.
type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewFlowError(code, msg string) *FlowError {
	return &FlowError{
		Code:    code,
		Message: msg,
	}
}

// Failure classes. Session-store trouble asks the customer to repeat;
// storage and availability trouble asks them to retry in a few minutes.
var (
	errSessionStore = NewFlowError("sessionStore", msgGenericError)
	errAvailability = NewFlowError("availabilityEngine", msgRetryLater)
	errRepository   = NewFlowError("bookingRepository", msgRetryLater)
)

// failure logs a collaborator failure under its error code and returns the
// customer-facing reply. Session state handling stays at the call site.
func failure(ferr *FlowError, cause error, fields ...zap.Field) models.FlowResponse {
	fields = append(fields, zap.String("code", ferr.Code), zap.Error(cause))
	utils.GetLogger().Error("flow collaborator failure", fields...)
	return models.FlowResponse{Text: ferr.Message}
}
