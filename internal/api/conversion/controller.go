package conversion

import (
	"errors"
	"net/http"

	"github.com/Conversly/notion-converter/internal/types"
	"github.com/Conversly/notion-converter/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// Controller handles HTTP requests for conversion
type Controller struct {
	service *Service
	strict  bool
}

// NewController creates a new conversion controller
func NewController(service *Service, strictIDValidation bool) *Controller {
	return &Controller{service: service, strict: strictIDValidation}
}

// Convert godoc
// @Summary Convert a Notion document to markdown
// @Accept json
// @Produce json
// @Param request body types.ConversionRequest true "Conversion Request"
// @Success 200 {object} types.ConversionResult
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /convert [post]
func (ctrl *Controller) Convert(c *gin.Context) {
	requestID := utils.RequestID(c)

	// The body must be a JSON object; null, arrays and scalars are rejected
	// before any field is looked at.
	var body map[string]interface{}
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil || body == nil {
		utils.Zlog.Warn("Invalid request body",
			zap.String("requestId", requestID),
			zap.Error(err))
		ctrl.fail(c, invalidBodyError())
		return
	}

	var req types.ConversionRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		utils.Zlog.Warn("Invalid request body",
			zap.String("requestId", requestID),
			zap.Error(err))
		ctrl.fail(c, invalidBodyError())
		return
	}

	documentID, convErr := ValidateConversionRequest(&req, ctrl.strict)

	utils.Zlog.Info("Conversion request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("tokenPrefix", ctrl.service.CredentialPrefix()),
		zap.String("documentId", documentID),
		zap.String("requestId", requestID))

	if convErr != nil {
		ctrl.fail(c, convErr)
		return
	}

	result, err := ctrl.service.Convert(c.Request.Context(), documentID, req.Options)
	if err != nil {
		var ce *types.ConversionError
		if !errors.As(err, &ce) {
			ce = &types.ConversionError{
				Kind:       types.KindUpstreamFailure,
				Message:    err.Error(),
				DocumentID: documentID,
				Err:        err,
			}
		}
		ctrl.fail(c, ce)
		return
	}

	result.RequestID = requestID
	c.JSON(http.StatusOK, result)
}

func (ctrl *Controller) fail(c *gin.Context, err *types.ConversionError) {
	status := err.Kind.StatusCode()
	if status >= http.StatusInternalServerError {
		utils.Zlog.Error("Conversion failed",
			zap.String("requestId", utils.RequestID(c)),
			zap.String("kind", string(err.Kind)),
			zap.Error(err))
	}
	c.JSON(status, types.NewErrorResponse(err))
}
