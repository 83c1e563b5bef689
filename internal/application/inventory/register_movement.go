package inventory

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInput).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) ([]dto.MovementResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	movements, err := uc.RegisterMovement(ctx, MovementInput{
		UserID:    userID,
		ProductID: in.ProductID,
		StoreID:   in.StoreID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}

// GetStockResponse existencias para GET /api/inventory/stock.
func (uc *RegisterMovementUseCase) GetStockResponse(ctx context.Context, productID, storeID string) (*dto.StockResponse, error) {
	stock, product, err := uc.GetStock(ctx, productID, storeID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		ProductID: productID,
		StoreID:   storeID,
		Quantity:  stock.Quantity,
		UnitCost:  product.Cost,
		UpdatedAt: stock.UpdatedAt,
	}, nil
}
