package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemReq struct {
	ProductID string `json:"product_id" validate:"uuid_required"`
	Qty       int    `json:"qty" validate:"gt=0"`
}

type saleReq struct {
	ShopID string    `json:"shop_id" validate:"required,uuid_required"`
	Items  []itemReq `json:"items" validate:"required,min=1,dive"`
}

func TestValidateStruct_Valido(t *testing.T) {
	req := saleReq{
		ShopID: "0b6f4f3e-8a57-4d0e-9e53-4b4c7f6b2b10",
		Items:  []itemReq{{ProductID: "5a1c7f7e-55a4-4bb1-9b0e-2e0f2b1f3a11", Qty: 2}},
	}
	assert.Nil(t, ValidateStruct(req))
}

func TestValidateStruct_UsaNombresJSON(t *testing.T) {
	req := saleReq{
		ShopID: "0b6f4f3e-8a57-4d0e-9e53-4b4c7f6b2b10",
		Items:  []itemReq{{ProductID: "5a1c7f7e-55a4-4bb1-9b0e-2e0f2b1f3a11", Qty: 0}},
	}
	errs := ValidateStruct(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "items[0].qty", errs[0].Field)
	assert.Equal(t, "gt", errs[0].Tag)
	assert.Equal(t, "debe ser mayor que 0", errs[0].Reason())
}

func TestValidateStruct_UUIDNulo(t *testing.T) {
	req := saleReq{
		ShopID: "00000000-0000-0000-0000-000000000000",
		Items:  []itemReq{{ProductID: "5a1c7f7e-55a4-4bb1-9b0e-2e0f2b1f3a11", Qty: 1}},
	}
	errs := ValidateStruct(req)
	require.NotEmpty(t, errs)
	assert.Equal(t, "shop_id", errs[0].Field)
}
