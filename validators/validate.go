package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"cyberlearn/middleware"
	"cyberlearn/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json name so clients can map errors onto form inputs
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// StructErrors validates v and returns a field -> message map, nil when valid
func StructErrors(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe)
		if _, exists := out[field]; !exists {
			out[field] = message(fe)
		}
	}
	return out
}

// fieldPath drops the struct name prefix: "CreateContentRequest.lab.tools" -> "lab.tools"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", name)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long!", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s!", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s!", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "Invalid email!"
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color!", name)
	case "url":
		return fmt.Sprintf("%s must be a valid URL!", name)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits!", name)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s!", name, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates!", name)
	}
	return fmt.Sprintf("%s is invalid!", name)
}

// ParseID reads a positive numeric route param
func ParseID(c *fiber.Ctx, param string) (uint, error) {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// IDParam returns a validator that stores the parsed route param under the given locals key
func IDParam(param, localsKey, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := ParseID(c, param)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s ID!", label), nil)
		}
		c.Locals(localsKey, id)
		return c.Next()
	}
}

// ParseBody decodes the JSON body (if any) into dst and validates it. On failure the response is already written
// and the returned error must be returned from the handler.
func ParseBody(c *fiber.Ctx, dst interface{}) (bool, error) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
	}
	if errs := StructErrors(dst); len(errs) > 0 {
		return false, middleware.ValidationErrorResponse(c, errs)
	}
	return true, nil
}

// TrimPtr trims a string pointer in place
func TrimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// OrderItem is one entry of a drag-and-drop reorder batch
type OrderItem struct {
	ID      uint   `json:"id" validate:"required"`
	Order   int    `json:"order" validate:"gte=0"`
	Section string `json:"section" validate:"max=100"`
}

// ReorderRequest is the phase reorder body
type ReorderRequest struct {
	Items []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// OrderUpdates converts request items into the persisted batch
func OrderUpdates(items []OrderItem) []utils.OrderUpdate {
	out := make([]utils.OrderUpdate, len(items))
	for i, item := range items {
		out[i] = utils.OrderUpdate{ID: item.ID, Order: item.Order, Section: item.Section}
	}
	return out
}
