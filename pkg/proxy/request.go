package proxy

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"mercator-hq/tokenscope/pkg/providers"
	"mercator-hq/tokenscope/pkg/providers/anthropic"
	"mercator-hq/tokenscope/pkg/proxy/types"
)

// validate is shared by every request parser; *validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// ParseJSONRequest decodes the JSON body of r into v and validates it with
// the struct's validate tags. Failures are returned as *RequestError.
func ParseJSONRequest(r *http.Request, v any) error {
	if r.Body == nil {
		return &RequestError{
			Message: "request body is required",
			Code:    types.CodeMissingField,
			Param:   "body",
		}
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &RequestError{
				Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxErr.Limit),
				Code:    types.CodeRequestTooLarge,
				Param:   "body",
				Status:  http.StatusRequestEntityTooLarge,
			}
		case errors.Is(err, io.EOF):
			return &RequestError{
				Message: "request body is required",
				Code:    types.CodeMissingField,
				Param:   "body",
			}
		default:
			return &RequestError{
				Message: fmt.Sprintf("invalid JSON: %v", err),
				Code:    types.CodeInvalidJSON,
				Param:   "body",
			}
		}
	}

	return validateStruct(v)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	// Report the first failure; clients fix one field at a time.
	fe := verrs[0]
	param := fieldPath(fe.Namespace())
	if fe.Tag() == "required" {
		return &RequestError{
			Message: fmt.Sprintf("missing required field '%s'", param),
			Code:    types.CodeMissingField,
			Param:   param,
		}
	}
	return &RequestError{
		Message: fmt.Sprintf("invalid value for '%s': failed '%s' rule", param, ruleName(fe)),
		Code:    types.CodeInvalidValue,
		Param:   param,
	}
}

// fieldPath drops the root struct name: "CountTokensRequest.images[0].data"
// becomes "images[0].data".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func ruleName(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

// ParseCountTokensRequest parses the body of POST /v1/count_tokens.
func ParseCountTokensRequest(r *http.Request) (*types.CountTokensRequest, error) {
	var req types.CountTokensRequest
	if err := ParseJSONRequest(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ParseFetchImageRequest parses the body of POST /v1/images/fetch.
func ParseFetchImageRequest(r *http.Request) (*types.FetchImageRequest, error) {
	var req types.FetchImageRequest
	if err := ParseJSONRequest(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ToTokenCountRequest converts an API request into the adapter request.
// Image data may be a data URL, in which case the media type defaults to
// the one declared in the URL. Images fetched from ImageURLs are appended
// by the caller.
func ToTokenCountRequest(req *types.CountTokensRequest) (*providers.TokenCountRequest, error) {
	out := &providers.TokenCountRequest{
		Model: req.Model,
		Text:  req.Text,
	}

	for i, img := range req.Images {
		image, err := toImage(img)
		if err != nil {
			err.Param = fmt.Sprintf("images[%d].%s", i, err.Param)
			return nil, err
		}
		out.Images = append(out.Images, image)
	}

	return out, nil
}

func toImage(img types.ImagePayload) (providers.Image, *RequestError) {
	data := img.Data
	mediaType := img.MediaType

	if strings.HasPrefix(data, "data:") {
		payload, err := anthropic.PayloadFromDataURL(data)
		if err != nil {
			return providers.Image{}, &RequestError{
				Message: fmt.Sprintf("invalid data URL: %v", err),
				Code:    types.CodeInvalidValue,
				Param:   "data",
			}
		}
		if mediaType == "" {
			mediaType = dataURLMediaType(data)
		}
		data = payload
	}

	if mediaType == "" {
		return providers.Image{}, &RequestError{
			Message: "missing required field 'media_type'",
			Code:    types.CodeMissingField,
			Param:   "media_type",
		}
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return providers.Image{}, &RequestError{
			Message: fmt.Sprintf("media type %q is not an image", mediaType),
			Code:    types.CodeInvalidValue,
			Param:   "media_type",
		}
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return providers.Image{}, &RequestError{
			Message: "image data is not valid base64",
			Code:    types.CodeInvalidValue,
			Param:   "data",
		}
	}

	return providers.Image{Data: data, MediaType: mediaType}, nil
}

// dataURLMediaType returns "image/png" for "data:image/png;base64,...".
func dataURLMediaType(s string) string {
	header, _, _ := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	mediaType, _, _ := strings.Cut(header, ";")
	return mediaType
}

// RequestError represents a request parsing or validation error.
type RequestError struct {
	Message string
	Code    string
	Param   string

	// Status overrides the default 400.
	Status int
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status the error is reported with.
func (e *RequestError) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	return http.StatusBadRequest
}

// ToErrorResponse converts a RequestError to an error response.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewInvalidRequestError(e.Message, e.Param, e.Code)
}
