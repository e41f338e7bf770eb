// Package validation valida los DTOs de entrada con go-playground/validator y
// traduce los errores a domain.ValidationError (campo → mensaje).
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/loyalty"
	"github.com/jhoicas/billmaker-api/pkg/gst"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator devuelve la instancia compartida con los tags propios registrados:
// gstin, pan, ifsc, hsn, pincode, in_phone, state_code, gst_slab, uqc, payment_method, tier.
// gstin y pan aceptan "" para que un *string vacío en una actualización borre el valor.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Nombres de campo según el tag json
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
			}
			return name
		})

		// decimal.Decimal se valida como float64 (gte, lte, gt, gst_slab)
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})

		mustRegister(v, "gstin", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || gst.ValidateGSTIN(s) == nil
		})
		mustRegister(v, "pan", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || gst.ValidatePAN(s) == nil
		})
		mustRegister(v, "ifsc", func(fl validator.FieldLevel) bool {
			return gst.ValidateIFSC(fl.Field().String()) == nil
		})
		mustRegister(v, "hsn", func(fl validator.FieldLevel) bool {
			return gst.ValidateHSN(fl.Field().String()) == nil
		})
		mustRegister(v, "pincode", func(fl validator.FieldLevel) bool {
			return gst.ValidatePincode(fl.Field().String()) == nil
		})
		mustRegister(v, "in_phone", func(fl validator.FieldLevel) bool {
			return gst.ValidatePhone(fl.Field().String()) == nil
		})
		mustRegister(v, "state_code", func(fl validator.FieldLevel) bool {
			return gst.StateName(fl.Field().String()) != ""
		})
		mustRegister(v, "gst_slab", func(fl validator.FieldLevel) bool {
			switch fl.Field().Kind() {
			case reflect.Float32, reflect.Float64:
				return gst.IsValidTaxSlab(decimal.NewFromFloat(fl.Field().Float()))
			case reflect.String:
				d, err := decimal.NewFromString(fl.Field().String())
				return err == nil && gst.IsValidTaxSlab(d)
			default:
				return false
			}
		})
		mustRegister(v, "uqc", func(fl validator.FieldLevel) bool {
			return gst.ValidUnits[strings.ToUpper(fl.Field().String())]
		})
		mustRegister(v, "tier", func(fl validator.FieldLevel) bool {
			return loyalty.IsValidTier(fl.Field().String())
		})
		mustRegister(v, "payment_method", func(fl validator.FieldLevel) bool {
			return gst.ValidPaymentMethods[fl.Field().String()]
		})

		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validation: registrar " + tag + ": " + err.Error())
	}
}

// Struct valida s y devuelve *domain.ValidationError (envuelve ErrInvalidInput) o nil.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Join(domain.ErrInvalidInput, err)
	}
	out := domain.NewValidationError()
	for _, fe := range verrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "CreateBusinessRequest.address.pincode" → "address.pincode".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_without":
		return "campo obligatorio"
	case "email":
		return "email inválido"
	case "url":
		return "URL inválida"
	case "uuid", "uuid4":
		return "UUID inválido"
	case "min":
		if e.Kind() == reflect.String {
			return "debe tener al menos " + e.Param() + " caracteres"
		}
		return "debe ser al menos " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "debe tener como máximo " + e.Param() + " caracteres"
		}
		return "debe ser como máximo " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "gte":
		return "debe ser mayor o igual a " + e.Param()
	case "lte":
		return "debe ser menor o igual a " + e.Param()
	case "gt":
		return "debe ser mayor que " + e.Param()
	case "alphanum":
		return "solo letras y números"
	case "numeric":
		return "solo dígitos"
	case "gstin":
		return "GSTIN inválido (formato o dígito de control)"
	case "pan":
		return "PAN inválido"
	case "ifsc":
		return "IFSC inválido"
	case "hsn":
		return "código HSN/SAC inválido (4, 6 u 8 dígitos)"
	case "pincode":
		return "PIN code inválido (6 dígitos)"
	case "in_phone":
		return "teléfono inválido (móvil de 10 dígitos o fijo con 0)"
	case "state_code":
		return "código de estado GST desconocido"
	case "gst_slab":
		return "tasa GST no válida (0, 0.25, 3, 5, 12, 18, 28)"
	case "uqc":
		return "unidad (UQC) no válida"
	case "tier":
		return "nivel no válido (bronze, silver, gold, platinum)"
	case "payment_method":
		return "método de pago no válido"
	default:
		return "valor inválido"
	}
}
