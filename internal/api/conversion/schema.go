package conversion

import (
	"strings"

	"github.com/Conversly/notion-converter/internal/types"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MinIdentifierLength is the shortest identifier accepted in strict mode.
const MinIdentifierLength = 10

const (
	msgInvalidBody       = "Invalid or missing JSON body."
	msgMissingIdentifier = "documentId not provided"
	msgNonStringID       = "documentId must be a string"
	msgShortID           = "documentId must be at least 10 characters"
)

// ValidateConversionRequest returns the normalized identifier, or the first
// failing check as a typed error.
func ValidateConversionRequest(r *types.ConversionRequest, strict bool) (string, *types.ConversionError) {
	raw := r.RawIdentifier()
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}

	if raw == nil || validation.Validate(raw, validation.Required) != nil {
		return "", types.NewConversionError(types.KindMissingIdentifier, "", msgMissingIdentifier)
	}

	documentID, ok := raw.(string)
	if !ok {
		return "", types.NewConversionError(types.KindInvalidIdentifierFormat, "", msgNonStringID)
	}

	if strict {
		if err := validation.Validate(documentID, validation.RuneLength(MinIdentifierLength, 0)); err != nil {
			return "", types.NewConversionError(types.KindInvalidIdentifierFormat, documentID, msgShortID)
		}
	}

	return documentID, nil
}

func invalidBodyError() *types.ConversionError {
	return types.NewConversionError(types.KindMissingIdentifier, "", msgInvalidBody)
}
