package api

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/energy-mock/internal/pkg/constants"
)

type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		return constants.NewCodedError("Invalid parameters: "+err.Error(), http.StatusBadRequest)
	}
	return nil
}

// JSONSerializer encodes responses with sonic using encoding/json compatible settings.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	return sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i)
}
