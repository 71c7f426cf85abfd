package api

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxMoneyPlaces is the precision of every stored amount.
const maxMoneyPlaces = 2

// validateMaxBytes unlike max, which counts runes, limits the byte length of a string field.
func validateMaxBytes(fl validator.FieldLevel) bool {
	param := fl.Param()
	maxBytes, err := strconv.Atoi(param)
	if err != nil {
		return false
	}

	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return len([]byte(str)) <= maxBytes
}

// validateMoney accepts positive amounts with at most two decimal places. Decimals reach it as strings through
// decimalValue.
func validateMoney(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	amount, err := decimal.NewFromString(str)
	if err != nil {
		return false
	}
	return amount.IsPositive() && amount.Equal(amount.Truncate(maxMoneyPlaces))
}

func decimalValue(field reflect.Value) any {
	if amount, ok := field.Interface().(decimal.Decimal); ok {
		return amount.String()
	}
	return nil
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("validator registration: unexpected engine %T", binding.Validator.Engine())
	}
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("max_bytes", validateMaxBytes); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	return nil
}
