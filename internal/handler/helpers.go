package handler

import (
	"errors"
	"net/http"
	"reflect"

	"comedorpanel/internal/apierror"
	"comedorpanel/internal/remote"
	"comedorpanel/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the
// caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// pre-flight validation → 422, unknown id → 404, a failed backend write →
// 502 with resource and method, tripped breaker → 503, anything else → 400.
func writeServiceError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(ve.Campos))
		return
	}
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, apierror.New(nf.Error()))
		return
	}
	var we *remote.WriteError
	if errors.As(err, &we) {
		c.JSON(http.StatusBadGateway, apierror.New(we.Error()))
		return
	}
	if errors.Is(err, remote.ErrCircuitOpen) {
		c.JSON(http.StatusServiceUnavailable, apierror.New("Backend no disponible, intente nuevamente"))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}
