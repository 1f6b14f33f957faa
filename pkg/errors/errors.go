package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeEmptyCart         Code = "EMPTY_CART"
	CodeNoValidProducts   Code = "NO_VALID_PRODUCTS"
	CodeMalformedToken    Code = "MALFORMED_TOKEN"
	CodeMissingClaim      Code = "MISSING_CLAIM"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeNetwork           Code = "NETWORK_ERROR"
	CodeServer            Code = "SERVER_ERROR"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// Metadata drives how a failure is surfaced to the agent.
type Metadata struct {
	PublicMessage string
	// TearsDownSession marks failures that must clear the stored credential
	// before propagating.
	TearsDownSession bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		PublicMessage: "please check the entered data",
	},
	CodeInsufficientStock: {
		PublicMessage: "not enough stock for the requested quantity",
	},
	CodeEmptyCart: {
		PublicMessage: "the cart is empty",
	},
	CodeNoValidProducts: {
		PublicMessage: "none of the saved products could be loaded",
	},
	CodeMalformedToken: {
		PublicMessage:    "session credential is malformed",
		TearsDownSession: true,
	},
	CodeMissingClaim: {
		PublicMessage:    "session credential is incomplete",
		TearsDownSession: true,
	},
	CodeUnauthorized: {
		PublicMessage:    "session expired, please sign in again",
		TearsDownSession: true,
	},
	CodeForbidden: {
		PublicMessage: "you do not have access to this sale",
	},
	CodeNotFound: {
		PublicMessage: "the requested record no longer exists",
	},
	CodeNetwork: {
		PublicMessage: "network unavailable, check the connection",
	},
	CodeServer: {
		PublicMessage: "the server rejected the operation",
	},
	CodeInternal: {
		PublicMessage: "something went wrong",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the domain code for any error, defaulting to internal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	if err == nil {
		return ""
	}
	return CodeInternal
}
