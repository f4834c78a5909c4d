package http

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"psrental-backend/internal/domain"
)

const maxBodyBytes = 10 << 20 // identity photos arrive inline as base64

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// empty passes; combine with required when the package is mandatory
	v.RegisterValidation("package_id", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if id == "" {
			return true
		}
		_, ok := domain.LookupPackage(domain.PackageID(id))
		return ok
	})

	return v
}

// validateStruct returns per-field messages, or nil when s is valid.
func validateStruct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required", "required_if":
			out[field] = "This field is required"
		case "email":
			out[field] = "Invalid email format"
		case "min", "gte":
			out[field] = "Value must be at least " + fe.Param()
		case "gt":
			out[field] = "Value must be greater than " + fe.Param()
		case "max", "lte":
			out[field] = "Value must be at most " + fe.Param()
		case "len":
			out[field] = "Must be exactly " + fe.Param() + " characters"
		case "numeric":
			out[field] = "Must contain digits only"
		case "oneof":
			out[field] = "Must be one of: " + fe.Param()
		case "package_id":
			out[field] = "Unknown rental package"
		default:
			out[field] = "Invalid value"
		}
	}
	return out
}

// decodeAndValidate reads a JSON body into dst and validates it, writing the 400
// response itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		badRequest(w, "Invalid request body")
		return false
	}
	if details := validateStruct(dst); details != nil {
		validationError(w, details)
		return false
	}
	return true
}
