package validator_test

import (
	"testing"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_TransferSinItems(t *testing.T) {
	err := validator.ValidateStruct(dto.SendTransferRequest{FromBranchID: 1, ToBranchID: 2})
	require.Error(t, err)

	var verrs validator.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Items", verrs[0].Field)
}

func TestValidateStruct_TipoDeMovimiento(t *testing.T) {
	err := validator.ValidateStruct(dto.StockMovementRequest{ProductID: 1, Quantity: 1, Type: "sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Type: oneof")

	assert.NoError(t, validator.ValidateStruct(dto.StockMovementRequest{ProductID: 1, Quantity: 1, Type: "in"}))
}

func TestValidateStruct_TopeDeCantidad(t *testing.T) {
	err := validator.ValidateStruct(dto.StockMovementRequest{ProductID: 1, Quantity: 1_000_000_001, Type: "in"})
	var verrs validator.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "max", verrs[0].Rule)

	err = validator.ValidateStruct(dto.CreateDocumentRequest{
		Kind: "purchase", BranchID: 1,
		Lines: []dto.DocumentLineRequest{{ProductID: 1, Quantity: 9_000_000_000_000_000_000}},
	})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "max", verrs[0].Rule)

	assert.NoError(t, validator.ValidateStruct(dto.StockMovementRequest{ProductID: 1, Quantity: 0, Type: "in"}),
		"cantidad cero la rechaza el dominio, no el validador")
}
