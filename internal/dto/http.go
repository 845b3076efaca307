package dto

import (
	"encoding/json"
	"net/http"
)

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewBadRequestResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusBadRequest, message, nil)
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

type CompareRequest struct {
	Symbol1 string `json:"symbol1" validate:"required"`
	Symbol2 string `json:"symbol2" validate:"required"`
	Period  string `json:"period"`
}

type PortfolioRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=5"`
	Period  string   `json:"period"`
}

type ReportRequest struct {
	Symbol1 string `json:"symbol1" validate:"required"`
	Symbol2 string `json:"symbol2" validate:"required"`
}

type ExportRequest struct {
	Format   string          `json:"format" validate:"required,oneof=json csv comparison report markdown"`
	Filename string          `json:"filename"`
	Data     json.RawMessage `json:"data" validate:"required"`
}

type ExportFileInfo struct {
	Filename  string  `json:"filename"`
	Path      string  `json:"path"`
	SizeMB    float64 `json:"size_mb"`
	CreatedAt string  `json:"created_at"`
}

type ValidateResult struct {
	Symbol string `json:"symbol"`
	Valid  bool   `json:"valid"`
}
