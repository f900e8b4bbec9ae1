package service

import (
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// invalidArgument lists the ledger errors caused by bad input.
var invalidArgument = []error{
	models.ErrUnknownMember,
	models.ErrInvalidSplitWeights,
	models.ErrSplitMismatch,
	models.ErrInvalidAmount,
	models.ErrCurrencyMismatch,
	models.ErrDuplicateMember,
	models.ErrSelfSettlement,
	models.ErrGroupMismatch,
	money.ErrInvalidCurrency,
	money.ErrOverflow,
}

// toConnectError maps ledger errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	switch {
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, models.ErrAlreadySettled):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, calculator.ErrUnbalanced):
		return connect.NewError(connect.CodeInternal, err)
	}
	for _, target := range invalidArgument {
		if errors.Is(err, target) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}

// validateRequest checks msg against its validate struct tags.
func validateRequest(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	problems := make([]string, len(fieldErrs))
	for i, fieldErr := range fieldErrs {
		problems[i] = fmt.Sprintf("%s: failed %q", fieldErr.Namespace(), fieldErr.Tag())
	}
	return connect.NewError(connect.CodeInvalidArgument,
		fmt.Errorf("invalid request: %s", strings.Join(problems, "; ")))
}
